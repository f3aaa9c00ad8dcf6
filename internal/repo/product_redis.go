package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/product-services/internal/models"
)

// RedisProductRepository stores products in redis so several registry processes can
// share one list.
//
// Layout: a sorted set <prefix>:products holds the ids scored by id, and each product is
// a hash <prefix>:product:<id> with name and price fields. Writes run as Lua scripts so
// each one is atomic.
type RedisProductRepository struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisProductRepository(rdb *redis.Client, prefix string) *RedisProductRepository {
	return &RedisProductRepository{rdb: rdb, prefix: prefix}
}

var seedScript = redis.NewScript(`
if redis.call('ZCARD', KEYS[1]) > 0 then
	return 0
end
for i = 2, #ARGV, 3 do
	redis.call('HSET', ARGV[1] .. ARGV[i], 'name', ARGV[i + 1], 'price', ARGV[i + 2])
	redis.call('ZADD', KEYS[1], ARGV[i], ARGV[i])
end
return 1
`)

var createScript = redis.NewScript(`
local last = redis.call('ZREVRANGE', KEYS[1], 0, 0)
local id = 1
if #last > 0 then
	id = tonumber(last[1]) + 1
end
redis.call('HSET', ARGV[1] .. id, 'name', ARGV[2], 'price', ARGV[3])
redis.call('ZADD', KEYS[1], id, id)
return id
`)

var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
if ARGV[1] == '1' then
	redis.call('HSET', KEYS[1], 'name', ARGV[2])
end
if ARGV[3] == '1' then
	redis.call('HSET', KEYS[1], 'price', ARGV[4])
end
return redis.call('HMGET', KEYS[1], 'name', 'price')
`)

var deleteScript = redis.NewScript(`
if redis.call('DEL', KEYS[2]) == 0 then
	return 0
end
redis.call('ZREM', KEYS[1], ARGV[1])
return 1
`)

func (r *RedisProductRepository) idsKey() string {
	return r.prefix + ":products"
}

func (r *RedisProductRepository) itemPrefix() string {
	return r.prefix + ":product:"
}

func (r *RedisProductRepository) itemKey(id int) string {
	return r.itemPrefix() + strconv.Itoa(id)
}

// Seed stores products, keeping their ids, when no product exists yet.
func (r *RedisProductRepository) Seed(ctx context.Context, products []models.Product) error {
	args := []any{r.itemPrefix()}
	for _, p := range products {
		args = append(args, p.ID, p.Name, formatPrice(p.Price))
	}
	if err := seedScript.Run(ctx, r.rdb, []string{r.idsKey()}, args...).Err(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	return nil
}

func (r *RedisProductRepository) List(ctx context.Context, pf ProductFilter) ([]models.Product, error) {
	ids, err := r.rdb.ZRange(ctx, r.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list product ids: %w", err)
	}

	pipe := r.rdb.Pipeline()
	cmds := make([]*redis.SliceCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HMGet(ctx, r.itemPrefix()+id, "name", "price")
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to load products: %w", err)
		}
	}

	filtered := []models.Product{}
	for i, id := range ids {
		p, ok, err := decodeProduct(id, cmds[i].Val())
		if err != nil {
			return nil, err
		}
		// Deleted between ZRANGE and HMGET.
		if !ok {
			continue
		}
		if matchesFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}

	start, end := Window(len(filtered), pf.Page, pf.Limit)
	return filtered[start:end], nil
}

func (r *RedisProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	vals, err := r.rdb.HMGet(ctx, r.itemKey(id), "name", "price").Result()
	if err != nil {
		return models.Product{}, err
	}
	p, ok, err := decodeProduct(strconv.Itoa(id), vals)
	if err != nil {
		return models.Product{}, err
	}
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *RedisProductRepository) Create(ctx context.Context, name string, price float64) (models.Product, error) {
	id, err := createScript.Run(ctx, r.rdb, []string{r.idsKey()}, r.itemPrefix(), name, formatPrice(price)).Int()
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return models.Product{ID: id, Name: name, Price: price}, nil
}

func (r *RedisProductRepository) Update(ctx context.Context, id int, patch models.ProductPatch) (models.Product, error) {
	setName, name := "0", ""
	if patch.Name != nil {
		setName, name = "1", *patch.Name
	}
	setPrice, price := "0", ""
	if patch.Price != nil {
		setPrice, price = "1", formatPrice(*patch.Price)
	}

	vals, err := updateScript.Run(ctx, r.rdb, []string{r.itemKey(id)}, setName, name, setPrice, price).Slice()
	if errors.Is(err, redis.Nil) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	p, ok, err := decodeProduct(strconv.Itoa(id), vals)
	if err != nil {
		return models.Product{}, err
	}
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *RedisProductRepository) Delete(ctx context.Context, id int) error {
	removed, err := deleteScript.Run(ctx, r.rdb, []string{r.idsKey(), r.itemKey(id)}, id).Int()
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if removed == 0 {
		return ErrProductNotFound
	}
	return nil
}

// decodeProduct builds a product from an HMGET name/price reply. ok is false when the
// hash does not exist.
func decodeProduct(id string, vals []any) (models.Product, bool, error) {
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return models.Product{}, false, nil
	}

	name, _ := vals[0].(string)
	priceStr, _ := vals[1].(string)

	pid, err := strconv.Atoi(id)
	if err != nil {
		return models.Product{}, false, fmt.Errorf("corrupt product id %q: %w", id, err)
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return models.Product{}, false, fmt.Errorf("corrupt price for product %s: %w", id, err)
	}
	return models.Product{ID: pid, Name: name, Price: price}, true, nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}
