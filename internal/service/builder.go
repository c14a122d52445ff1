package service

import (
	"sync"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/repository"

	"github.com/google/uuid"
)

// BraceletDesign 手链设计快照（入车后冻结，仅可整体替换）
type BraceletDesign struct {
	ID         string          `json:"id"`
	Size       int             `json:"size"`
	Slots      []*models.Charm `json:"slots"`
	TotalPrice models.Money    `json:"total_price"`
}

// Builder 手链定制会话模型
type Builder struct {
	Size          int
	StartingCharm *models.Charm
	Slots         []*models.Charm
	Armed         *models.Charm
}

// NewBuilder 创建定制会话，槽位按默认饰品填充
func NewBuilder(size int, starting *models.Charm) *Builder {
	if size < constants.BraceletSizeMin || size > constants.BraceletSizeMax {
		size = constants.BraceletSizeDefault
	}
	b := &Builder{
		Size:          size,
		StartingCharm: cloneCharm(starting),
	}
	b.resetSlots()
	return b
}

// SetSize 调整槽位数。调整会将整条手链重置为默认饰品填充
// （沿用既有行为：改尺寸即重开设计，而非原位截断或补位）。
func (b *Builder) SetSize(size int) error {
	if size < constants.BraceletSizeMin || size > constants.BraceletSizeMax {
		return ErrInvalidBraceletSize
	}
	b.Size = size
	b.resetSlots()
	return nil
}

// SetStartingCharm 更换默认填充饰品，仅替换当前仍等于旧默认值的槽位。
// 用户主动选回默认饰品的槽位无法与填充槽位区分，属已知限制。
func (b *Builder) SetStartingCharm(charm *models.Charm) {
	old := b.StartingCharm
	b.StartingCharm = cloneCharm(charm)
	for i, slot := range b.Slots {
		if slotMatchesDefault(slot, old) {
			b.Slots[i] = cloneCharm(b.StartingCharm)
		}
	}
}

// ArmCharm 备选饰品待放置，不影响槽位
func (b *Builder) ArmCharm(charm *models.Charm) {
	b.Armed = cloneCharm(charm)
}

// PlaceAt 将备选饰品写入指定槽位并清空备选。
// 未备选或下标越界时静默忽略，返回是否实际放置。
func (b *Builder) PlaceAt(index int) bool {
	if b.Armed == nil {
		return false
	}
	if index < 0 || index >= len(b.Slots) {
		return false
	}
	b.Slots[index] = b.Armed
	b.Armed = nil
	return true
}

// DragPlace 拖放一步到位（等价于备选+放置，结束时备选清空），
// 空载荷或越界时忽略
func (b *Builder) DragPlace(charm *models.Charm, index int) bool {
	if charm == nil {
		return false
	}
	if index < 0 || index >= len(b.Slots) {
		return false
	}
	b.Slots[index] = cloneCharm(charm)
	b.Armed = nil
	return true
}

// TotalPrice 重新计算当前槽位总价（每次求和，不做增量维护）
func (b *Builder) TotalPrice() models.Money {
	return models.NewMoneyFromDecimal(SlotsTotal(b.Slots))
}

// PriceBreakdown 当前槽位的价目分组
func (b *Builder) PriceBreakdown() []BreakdownLine {
	return BreakdownSlots(b.Slots)
}

// Snapshot 生成入车用的设计快照（深拷贝，后续编辑不影响快照）
func (b *Builder) Snapshot() BraceletDesign {
	return BraceletDesign{
		ID:         uuid.NewString(),
		Size:       b.Size,
		Slots:      cloneSlots(b.Slots),
		TotalPrice: b.TotalPrice(),
	}
}

// LoadDesign 将已有设计载回定制会话（重新编辑入口）
func (b *Builder) LoadDesign(design BraceletDesign) {
	size := design.Size
	if size < constants.BraceletSizeMin || size > constants.BraceletSizeMax {
		size = constants.BraceletSizeDefault
	}
	b.Size = size
	b.Slots = cloneSlots(design.Slots)
	if len(b.Slots) != size {
		b.resetSlots()
	}
	b.Armed = nil
}

func (b *Builder) resetSlots() {
	slots := make([]*models.Charm, b.Size)
	for i := range slots {
		slots[i] = cloneCharm(b.StartingCharm)
	}
	b.Slots = slots
}

func slotMatchesDefault(slot, def *models.Charm) bool {
	if slot == nil || def == nil {
		return slot == nil && def == nil
	}
	return slot.ID == def.ID
}

func cloneCharm(charm *models.Charm) *models.Charm {
	if charm == nil {
		return nil
	}
	copied := charm.Snapshot()
	return &copied
}

func cloneSlots(slots []*models.Charm) []*models.Charm {
	copied := make([]*models.Charm, len(slots))
	for i, charm := range slots {
		copied[i] = cloneCharm(charm)
	}
	return copied
}

// BuilderService 定制会话注册表（按购物车令牌隔离，互斥保护）
type BuilderService struct {
	charmRepo       repository.CharmRepository
	startingCharmID uint

	mu       sync.Mutex
	sessions map[string]*Builder
}

// NewBuilderService 创建定制会话服务
func NewBuilderService(charmRepo repository.CharmRepository, startingCharmID uint) *BuilderService {
	return &BuilderService{
		charmRepo:       charmRepo,
		startingCharmID: startingCharmID,
		sessions:        make(map[string]*Builder),
	}
}

// Get 获取（必要时创建）令牌对应的定制会话
func (s *BuilderService) Get(token string) (*Builder, error) {
	s.mu.Lock()
	if b, ok := s.sessions[token]; ok {
		s.mu.Unlock()
		return b, nil
	}
	s.mu.Unlock()

	starting, err := s.defaultStartingCharm()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.sessions[token]; ok {
		return b, nil
	}
	b := NewBuilder(constants.BraceletSizeDefault, starting)
	s.sessions[token] = b
	return b, nil
}

// SetSize 调整指定会话的槽位数
func (s *BuilderService) SetSize(token string, size int) (*Builder, error) {
	b, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	if err := b.SetSize(size); err != nil {
		return nil, err
	}
	return b, nil
}

// SetStartingCharm 更换指定会话的默认填充饰品
func (s *BuilderService) SetStartingCharm(token string, charmID uint) (*Builder, error) {
	b, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	charm, err := s.resolveCharm(charmID)
	if err != nil {
		return nil, err
	}
	b.SetStartingCharm(charm)
	return b, nil
}

// Arm 备选饰品
func (s *BuilderService) Arm(token string, charmID uint) (*Builder, error) {
	b, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	charm, err := s.resolveCharm(charmID)
	if err != nil {
		return nil, err
	}
	b.ArmCharm(charm)
	return b, nil
}

// PlaceAt 放置备选饰品
func (s *BuilderService) PlaceAt(token string, index int) (*Builder, error) {
	b, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	b.PlaceAt(index)
	return b, nil
}

// DragPlace 拖放放置
func (s *BuilderService) DragPlace(token string, charmID uint, index int) (*Builder, error) {
	b, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	charm, err := s.resolveCharm(charmID)
	if err != nil {
		return nil, err
	}
	b.DragPlace(charm, index)
	return b, nil
}

// Snapshot 生成当前设计快照
func (s *BuilderService) Snapshot(token string) (BraceletDesign, error) {
	b, err := s.Get(token)
	if err != nil {
		return BraceletDesign{}, err
	}
	return b.Snapshot(), nil
}

// Load 将已有设计载回会话（重新编辑）
func (s *BuilderService) Load(token string, design BraceletDesign) error {
	b, err := s.Get(token)
	if err != nil {
		return err
	}
	b.LoadDesign(design)
	return nil
}

// Reset 丢弃会话，下次访问重建默认会话
func (s *BuilderService) Reset(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *BuilderService) defaultStartingCharm() (*models.Charm, error) {
	if s.startingCharmID == 0 || s.charmRepo == nil {
		return nil, nil
	}
	charm, err := s.charmRepo.GetByID(s.startingCharmID)
	if err != nil {
		return nil, err
	}
	// 默认饰品未配置或已下架时从空槽开始
	if charm == nil || !charm.IsActive {
		return nil, nil
	}
	return charm, nil
}

func (s *BuilderService) resolveCharm(charmID uint) (*models.Charm, error) {
	if charmID == 0 || s.charmRepo == nil {
		return nil, ErrCharmNotAvailable
	}
	charm, err := s.charmRepo.GetByID(charmID)
	if err != nil {
		return nil, err
	}
	if charm == nil || !charm.IsActive {
		return nil, ErrCharmNotAvailable
	}
	return charm, nil
}
