package repository

import "time"

// CharmListFilter 查询饰品列表的过滤条件
type CharmListFilter struct {
	Page        int
	PageSize    int
	Category    string
	Subcategory string
	Search      string
	OnlyActive  bool
	InStock     bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	Status      string
	OrderNo     string
	Phone       string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// EventListFilter 查询活动列表的过滤条件
type EventListFilter struct {
	Page       int
	PageSize   int
	OnlyActive bool
	Upcoming   bool
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page      int
	PageSize  int
	MinRating int
}
