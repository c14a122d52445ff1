package service

import (
	"encoding/json"
	"sync"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/logger"
	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartCharmItem 散装饰品购物车项。重复加购同一饰品不合并，
// 每次加购都是独立条目（沿用既有行为）。
type CartCharmItem struct {
	CartItemID string       `json:"cart_item_id"`
	Charm      models.Charm `json:"charm"`
	Quantity   int          `json:"quantity"`
}

// Cart 购物车聚合视图
type Cart struct {
	Bracelets  []BraceletDesign `json:"bracelets"`
	CharmItems []CartCharmItem  `json:"charm_items"`
	Subtotal   models.Money     `json:"subtotal"`
}

// cartSession 单令牌购物车状态。手链持久化到 cart_records（整值写入），
// 散装饰品仅存会话内存。
type cartSession struct {
	bracelets  []BraceletDesign
	charmItems []CartCharmItem
}

// CartService 购物车服务
type CartService struct {
	cartRepo repository.CartRepository

	mu       sync.Mutex
	sessions map[string]*cartSession
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		sessions: make(map[string]*cartSession),
	}
}

// Get 获取购物车视图（首次访问时从持久层回灌手链列表）
func (s *CartService) Get(token string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(token)
	if err != nil {
		return nil, err
	}
	return s.viewLocked(session), nil
}

// AddBracelet 将设计快照加入购物车。入参被深拷贝并分配新 ID，
// 定制会话的后续编辑不会影响车内条目。
func (s *CartService) AddBracelet(token string, design BraceletDesign) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(token)
	if err != nil {
		return nil, err
	}
	copied := cloneDesign(design)
	copied.ID = uuid.NewString()
	copied.TotalPrice = models.NewMoneyFromDecimal(SlotsTotal(copied.Slots))
	session.bracelets = append(session.bracelets, copied)
	s.persistLocked(token, session)
	return s.viewLocked(session), nil
}

// RemoveBracelet 按 ID 移除手链
func (s *CartService) RemoveBracelet(token, designID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(token)
	if err != nil {
		return nil, err
	}
	for i := range session.bracelets {
		if session.bracelets[i].ID == designID {
			session.bracelets = append(session.bracelets[:i], session.bracelets[i+1:]...)
			s.persistLocked(token, session)
			return s.viewLocked(session), nil
		}
	}
	return nil, ErrBraceletNotFound
}

// EditBracelet 整体替换手链设计，保留原 ID
func (s *CartService) EditBracelet(token, designID string, design BraceletDesign) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(token)
	if err != nil {
		return nil, err
	}
	for i := range session.bracelets {
		if session.bracelets[i].ID == designID {
			copied := cloneDesign(design)
			copied.ID = designID
			copied.TotalPrice = models.NewMoneyFromDecimal(SlotsTotal(copied.Slots))
			session.bracelets[i] = copied
			s.persistLocked(token, session)
			return s.viewLocked(session), nil
		}
	}
	return nil, ErrBraceletNotFound
}

// GetBracelet 读取车内手链快照（重新编辑入口）
func (s *CartService) GetBracelet(token, designID string) (BraceletDesign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(token)
	if err != nil {
		return BraceletDesign{}, err
	}
	for i := range session.bracelets {
		if session.bracelets[i].ID == designID {
			return cloneDesign(session.bracelets[i]), nil
		}
	}
	return BraceletDesign{}, ErrBraceletNotFound
}

// AddCharmItem 加购散装饰品。数量收敛到 [1, stock]；
// 不按饰品合并，总是新建条目。
func (s *CartService) AddCharmItem(token string, charm models.Charm, quantity int) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(token)
	if err != nil {
		return nil, err
	}
	if charm.Stock != constants.StockUnlimited && charm.Stock < 1 {
		return nil, ErrCharmNotAvailable
	}
	session.charmItems = append(session.charmItems, CartCharmItem{
		CartItemID: uuid.NewString(),
		Charm:      charm.Snapshot(),
		Quantity:   clampQuantity(quantity, charm),
	})
	s.persistLocked(token, session)
	return s.viewLocked(session), nil
}

// UpdateCharmItemQuantity 更新散装饰品数量。目标数量低于 1 视为移除
// （显式语义，替代原实现里分散在调用侧的递减删除）。
func (s *CartService) UpdateCharmItemQuantity(token, cartItemID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return s.RemoveCharmItem(token, cartItemID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(token)
	if err != nil {
		return nil, err
	}
	for i := range session.charmItems {
		if session.charmItems[i].CartItemID == cartItemID {
			session.charmItems[i].Quantity = clampQuantity(quantity, session.charmItems[i].Charm)
			s.persistLocked(token, session)
			return s.viewLocked(session), nil
		}
	}
	return nil, ErrCartItemNotFound
}

// RemoveCharmItem 移除散装饰品条目
func (s *CartService) RemoveCharmItem(token, cartItemID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(token)
	if err != nil {
		return nil, err
	}
	for i := range session.charmItems {
		if session.charmItems[i].CartItemID == cartItemID {
			session.charmItems = append(session.charmItems[:i], session.charmItems[i+1:]...)
			s.persistLocked(token, session)
			return s.viewLocked(session), nil
		}
	}
	return nil, ErrCartItemNotFound
}

// Clear 清空购物车（两类条目一并清空）
func (s *CartService) Clear(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(token)
	if err != nil {
		return err
	}
	session.bracelets = nil
	session.charmItems = nil
	s.persistLocked(token, session)
	return nil
}

// Subtotal 购物车小计：手链总价之和 + 散装饰品单价×数量之和
func (s *CartService) Subtotal(token string) (models.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.sessionLocked(token)
	if err != nil {
		return models.Money{}, err
	}
	return models.NewMoneyFromDecimal(subtotalOf(session)), nil
}

func (s *CartService) sessionLocked(token string) (*cartSession, error) {
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	session := &cartSession{}
	if s.cartRepo != nil {
		record, err := s.cartRepo.GetByToken(token)
		if err != nil {
			return nil, err
		}
		if record != nil && len(record.Bracelets) > 0 {
			var bracelets []BraceletDesign
			if err := json.Unmarshal(record.Bracelets, &bracelets); err != nil {
				// 反序列化失败按空购物车处理，不视为致命错误
				logger.Warnw("cart_rehydrate_failed", "token", token, "error", err)
			} else {
				session.bracelets = bracelets
				for i := range session.bracelets {
					session.bracelets[i].TotalPrice = models.NewMoneyFromDecimal(SlotsTotal(session.bracelets[i].Slots))
				}
			}
		}
	}
	s.sessions[token] = session
	return session, nil
}

// persistLocked 每次变更后同步整值写入手链列表（散装饰品不持久化）
func (s *CartService) persistLocked(token string, session *cartSession) {
	if s.cartRepo == nil {
		return
	}
	payload, err := json.Marshal(session.bracelets)
	if err != nil {
		logger.Errorw("cart_serialize_failed", "token", token, "error", err)
		return
	}
	if err := s.cartRepo.Save(token, payload); err != nil {
		logger.Errorw("cart_persist_failed", "token", token, "error", err)
	}
}

func (s *CartService) viewLocked(session *cartSession) *Cart {
	bracelets := make([]BraceletDesign, len(session.bracelets))
	for i := range session.bracelets {
		bracelets[i] = cloneDesign(session.bracelets[i])
	}
	items := make([]CartCharmItem, len(session.charmItems))
	copy(items, session.charmItems)
	return &Cart{
		Bracelets:  bracelets,
		CharmItems: items,
		Subtotal:   models.NewMoneyFromDecimal(subtotalOf(session)),
	}
}

func subtotalOf(session *cartSession) decimal.Decimal {
	total := decimal.Zero
	for i := range session.bracelets {
		total = total.Add(session.bracelets[i].TotalPrice.Decimal).Round(2)
	}
	for _, item := range session.charmItems {
		total = total.Add(item.Charm.Price.MulInt(item.Quantity).Decimal).Round(2)
	}
	return total
}

func cloneDesign(design BraceletDesign) BraceletDesign {
	copied := design
	copied.Slots = cloneSlots(design.Slots)
	return copied
}

// clampQuantity 数量收敛到 [1, stock]，不限量时仅保证下限
func clampQuantity(quantity int, charm models.Charm) int {
	if quantity < 1 {
		quantity = 1
	}
	if charm.Stock != constants.StockUnlimited && quantity > charm.Stock {
		quantity = charm.Stock
	}
	if quantity < 1 {
		quantity = 1
	}
	return quantity
}
