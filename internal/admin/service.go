package admin

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bdshop/storefront-backend/internal/orders"
	"github.com/bdshop/storefront-backend/pkg/db/models"
	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
)

const (
	recentOrdersLimit = 10
	topProductsLimit  = 10
)

type orderStore interface {
	ListAll(ctx context.Context) ([]models.Order, error)
	Delete(ctx context.Context, id string) error
}

type productCounter interface {
	CountProducts(ctx context.Context) (int64, error)
}

// ProductStat aggregates sales of one product across all orders.
type ProductStat struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	TotalSold int     `json:"totalSold"`
	Revenue   float64 `json:"totalRevenue"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	TotalOrders       int               `json:"totalOrders"`
	TotalRevenue      float64           `json:"totalRevenue"`
	AverageOrderValue float64           `json:"averageOrderValue"`
	TotalProducts     int64             `json:"totalProducts"`
	RecentOrders      []orders.OrderDTO `json:"recentOrders"`
	TopSelling        []ProductStat     `json:"topSellingProducts"`
	TopRevenue        []ProductStat     `json:"topRevenueProducts"`
}

type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	DeleteOrder(ctx context.Context, id string) error
}

type service struct {
	orders   orderStore
	products productCounter
}

func NewService(store orderStore, products productCounter) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("order store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product counter required")
	}
	return &service{orders: store, products: products}, nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	all, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	productCount, err := s.products.CountProducts(ctx)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	for _, o := range all {
		revenue = revenue.Add(o.Revenue())
	}

	dash := &Dashboard{
		TotalOrders:   len(all),
		TotalRevenue:  revenue.Round(2).InexactFloat64(),
		TotalProducts: productCount,
		RecentOrders:  make([]orders.OrderDTO, 0, recentOrdersLimit),
	}
	if len(all) > 0 {
		dash.AverageOrderValue = revenue.Div(decimal.NewFromInt(int64(len(all)))).Round(2).InexactFloat64()
	}
	for i, o := range all {
		if i == recentOrdersLimit {
			break
		}
		dash.RecentOrders = append(dash.RecentOrders, orders.NewOrderDTO(o))
	}

	stats := aggregateProducts(all)
	dash.TopSelling = topBy(stats, func(a, b ProductStat) bool { return a.TotalSold > b.TotalSold })
	dash.TopRevenue = topBy(stats, func(a, b ProductStat) bool { return a.Revenue > b.Revenue })
	return dash, nil
}

// aggregateProducts sums quantity and quantity x unit price per product id, in
// first-seen order.
func aggregateProducts(all []models.Order) []ProductStat {
	index := map[string]int{}
	revenue := []decimal.Decimal{}
	stats := []ProductStat{}
	for _, o := range all {
		for _, line := range o.Products {
			if line.ProductID == "" {
				continue
			}
			i, ok := index[line.ProductID]
			if !ok {
				i = len(stats)
				index[line.ProductID] = i
				stats = append(stats, ProductStat{ProductID: line.ProductID})
				revenue = append(revenue, decimal.Zero)
			}
			if stats[i].Title == "" && line.ProductTitle != nil {
				stats[i].Title = *line.ProductTitle
			}
			stats[i].TotalSold += line.Quantity
			if line.UnitPrice.Valid {
				revenue[i] = revenue[i].Add(line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
			}
		}
	}
	for i := range stats {
		stats[i].Revenue = revenue[i].Round(2).InexactFloat64()
	}
	return stats
}

func topBy(stats []ProductStat, less func(a, b ProductStat) bool) []ProductStat {
	out := make([]ProductStat, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > topProductsLimit {
		out = out[:topProductsLimit]
	}
	return out
}

func (s *service) DeleteOrder(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.orders.Delete(ctx, id)
}
