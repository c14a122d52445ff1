package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/logger"
	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/queue"
	"github.com/charmsmith/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 结算状态机状态。流程线性不可恢复：
// Editing → Validating → CheckingStock → Submitting → Finalizing → Done，
// CheckingStock/Submitting/Finalizing 失败进入 Failed；
// Validating 失败携带字段错误退回 Editing。
type checkoutState string

const (
	stateEditing       checkoutState = "editing"
	stateValidating    checkoutState = "validating"
	stateCheckingStock checkoutState = "checking_stock"
	stateSubmitting    checkoutState = "submitting"
	stateFinalizing    checkoutState = "finalizing"
	stateDone          checkoutState = "done"
	stateFailed        checkoutState = "failed"
)

// CustomerInfo 结算表单
type CustomerInfo struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	HouseNumber    string `json:"house_number"`
	Street         string `json:"street"`
	Barangay       string `json:"barangay"`
	City           string `json:"city"`
	Province       string `json:"province"`
	Region         string `json:"region"`
	Zip            string `json:"zip"`
	PaymentMethod  string `json:"payment_method"`
	DeliveryMethod string `json:"delivery_method"`
	Notes          string `json:"notes"`
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	Token    string
	Customer CustomerInfo
	ClientIP string
}

// CheckoutResult 结算结果（订单已落库，交接内容仅为提示性产物）
type CheckoutResult struct {
	Orders        []models.Order  `json:"orders"`
	Summary       string          `json:"summary"`
	MessengerLink string          `json:"messenger_link"`
	HandoffQRPNG  []byte          `json:"handoff_qr_png,omitempty"`
	Demand        []BreakdownLine `json:"demand"`
	TotalAmount   models.Money    `json:"total_amount"`
}

// charmDemand 单个饰品的聚合需求（跨全部手链与散装条目）
type charmDemand struct {
	Charm  models.Charm
	Needed int
}

// CheckoutService 结算服务
type CheckoutService struct {
	charmRepo     repository.CharmRepository
	orderRepo     repository.OrderRepository
	cartService   *CartService
	queueClient   *queue.Client
	currency      string
	storeName     string
	messengerPage string
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(charmRepo repository.CharmRepository, orderRepo repository.OrderRepository, cartService *CartService, queueClient *queue.Client, currency, storeName, messengerPage string) *CheckoutService {
	if strings.TrimSpace(currency) == "" {
		currency = constants.SiteCurrencyDefault
	}
	return &CheckoutService{
		charmRepo:     charmRepo,
		orderRepo:     orderRepo,
		cartService:   cartService,
		queueClient:   queueClient,
		currency:      currency,
		storeName:     storeName,
		messengerPage: messengerPage,
	}
}

// Submit 执行一次结算提交。
// 库存采用先读校验（可给出准确的缺口数字且零写入中止）+
// 落库后条件扣减（stock = stock - n WHERE stock >= n）的组合：
// 常规缺货在写入前以 StockUnavailableError 拒绝；并发竞争下扣减
// 失败时订单已存在、库存未减，以 ErrInventoryReconciliation 区分上抛。
func (s *CheckoutService) Submit(input CheckoutInput) (*CheckoutResult, error) {
	state := stateValidating
	if fieldErrs := validateCustomer(input.Customer); len(fieldErrs) > 0 {
		// 校验失败退回 Editing，不触达存储层
		return nil, NewValidationError(fieldErrs)
	}

	cart, err := s.cartService.Get(input.Token)
	if err != nil {
		return nil, err
	}
	if len(cart.Bracelets) == 0 && len(cart.CharmItems) == 0 {
		return nil, ErrCartEmpty
	}

	state = stateCheckingStock
	demands, err := s.checkStock(cart)
	if err != nil {
		logger.Warnw("checkout_stock_check_failed", "state", string(state), "error", err)
		return nil, err
	}

	state = stateSubmitting
	now := time.Now()
	orders, err := s.submitOrders(cart, input, now)
	if err != nil {
		logger.Errorw("checkout_submit_failed", "state", string(state), "error", err)
		return nil, ErrOrderCreateFailed
	}

	state = stateFinalizing
	if err := s.finalizeStock(demands); err != nil {
		// 订单已落库而库存未回写：提示联系客服而非重试，重试会重复下单
		logger.Errorw("checkout_stock_finalize_failed",
			"state", string(state),
			"order_no", orders[0].OrderNo,
			"error", err,
		)
		return nil, err
	}

	state = stateDone
	result := s.composeResult(orders, demands, input.Customer)

	if s.queueClient != nil {
		ids := make([]uint, 0, len(orders))
		nos := make([]string, 0, len(orders))
		for _, order := range orders {
			ids = append(ids, order.ID)
			nos = append(nos, order.OrderNo)
		}
		if err := s.queueClient.EnqueueOrderPlaced(queue.OrderPlacedPayload{
			OrderIDs: ids,
			OrderNos: nos,
			Summary:  result.Summary,
		}); err != nil {
			// 通知属提示性旁路，失败只记录
			logger.Warnw("checkout_enqueue_notify_failed", "order_no", orders[0].OrderNo, "error", err)
		}
	}

	logger.Infow("checkout_done",
		"state", string(state),
		"orders", len(orders),
		"total", result.TotalAmount.String(),
	)
	return result, nil
}

// validateCustomer 必填与格式校验（Validating 态）
func validateCustomer(customer CustomerInfo) map[string]string {
	fields := make(map[string]string)
	required := []struct {
		key   string
		value string
	}{
		{"name", customer.Name},
		{"phone", customer.Phone},
		{"house_number", customer.HouseNumber},
		{"barangay", customer.Barangay},
		{"city", customer.City},
		{"province", customer.Province},
		{"region", customer.Region},
		{"zip", customer.Zip},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			fields[field.key] = "required"
		}
	}

	if _, ok := fields["phone"]; !ok {
		digits := stripNonDigits(customer.Phone)
		if len(digits) < constants.PhoneDigitsMin || len(digits) > constants.PhoneDigitsMax {
			fields["phone"] = fmt.Sprintf("must contain %d-%d digits", constants.PhoneDigitsMin, constants.PhoneDigitsMax)
		}
	}
	if _, ok := fields["zip"]; !ok {
		zip := strings.TrimSpace(customer.Zip)
		if len(zip) != constants.ZipDigits || stripNonDigits(zip) != zip {
			fields["zip"] = fmt.Sprintf("must be exactly %d digits", constants.ZipDigits)
		}
	}
	if email := strings.TrimSpace(customer.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			fields["email"] = "invalid format"
		}
	}
	if _, ok := constants.PaymentMethodLabels[customer.PaymentMethod]; !ok {
		fields["payment_method"] = "unknown payment method"
	}
	if _, ok := constants.DeliveryMethodLabels[customer.DeliveryMethod]; !ok {
		fields["delivery_method"] = "unknown delivery method"
	}
	return fields
}

// checkStock 计算聚合需求并逐饰品读取现库存（CheckingStock 态）。
// 任一饰品缺口即整单中止，不做部分应用。
func (s *CheckoutService) checkStock(cart *Cart) ([]charmDemand, error) {
	demands := aggregateCharmDemand(cart)
	for i := range demands {
		charm, err := s.charmRepo.GetByID(demands[i].Charm.ID)
		if err != nil {
			return nil, err
		}
		if charm == nil {
			return nil, ErrCharmNotAvailable
		}
		if charm.HasLimitedStock() && charm.Stock < demands[i].Needed {
			return nil, &StockUnavailableError{
				CharmID:   charm.ID,
				CharmName: charm.Name,
				Available: charm.Stock,
				Needed:    demands[i].Needed,
			}
		}
		// 需求行保留入车时的快照价格（目录后续调价不回溯已放置条目），
		// 仅同步现库存数供 Finalizing 判定限量/不限量
		demands[i].Charm.Stock = charm.Stock
	}
	return demands, nil
}

// submitOrders 写入订单、手链记录与订单项（Submitting 态）。
// 每条手链一张订单，散装饰品合并为追加的一张订单；整次提交包在
// 单个事务中，任一写入失败全部回滚（不保留前序手链的半成品行）。
func (s *CheckoutService) submitOrders(cart *Cart, input CheckoutInput, now time.Time) ([]models.Order, error) {
	baseNo := generateOrderNo()
	var orders []models.Order

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		seq := 0
		total := len(cart.Bracelets)
		if len(cart.CharmItems) > 0 {
			total++
		}

		for i := range cart.Bracelets {
			design := cart.Bracelets[i]
			seq++
			order := s.newOrderRow(buildOrderNo(baseNo, seq, total), input, now, design.TotalPrice)
			if err := orderRepo.Create(&order); err != nil {
				return err
			}

			arrangement := make(models.UintArray, 0, len(design.Slots))
			for _, slot := range design.Slots {
				if slot == nil {
					arrangement = append(arrangement, 0)
					continue
				}
				arrangement = append(arrangement, slot.ID)
			}
			record := models.BraceletRecord{
				OrderID:     order.ID,
				Size:        design.Size,
				TotalPrice:  design.TotalPrice,
				Arrangement: arrangement,
				CreatedAt:   now,
			}
			if err := orderRepo.CreateBracelet(&record); err != nil {
				return err
			}

			lines := BreakdownSlots(design.Slots)
			items := make([]models.OrderItem, 0, len(lines))
			for _, line := range lines {
				braceletID := record.ID
				items = append(items, models.OrderItem{
					OrderID:    order.ID,
					BraceletID: &braceletID,
					CharmID:    line.Charm.ID,
					Name:       line.Charm.Name,
					UnitPrice:  line.Charm.Price,
					Quantity:   line.Count,
					TotalPrice: line.LineTotal,
					CreatedAt:  now,
					UpdatedAt:  now,
				})
			}
			if err := orderRepo.CreateItems(items); err != nil {
				return err
			}
			orders = append(orders, order)
		}

		if len(cart.CharmItems) > 0 {
			seq++
			lines := collapseCharmItems(cart.CharmItems)
			itemsTotal := decimal.Zero
			for _, line := range lines {
				itemsTotal = itemsTotal.Add(line.LineTotal.Decimal).Round(2)
			}
			order := s.newOrderRow(buildOrderNo(baseNo, seq, total), input, now, models.NewMoneyFromDecimal(itemsTotal))
			if err := orderRepo.Create(&order); err != nil {
				return err
			}
			items := make([]models.OrderItem, 0, len(lines))
			for _, line := range lines {
				items = append(items, models.OrderItem{
					OrderID:    order.ID,
					CharmID:    line.Charm.ID,
					Name:       line.Charm.Name,
					UnitPrice:  line.Charm.Price,
					Quantity:   line.Count,
					TotalPrice: line.LineTotal,
					CreatedAt:  now,
					UpdatedAt:  now,
				})
			}
			if err := orderRepo.CreateItems(items); err != nil {
				return err
			}
			orders = append(orders, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// finalizeStock 逐饰品条件扣减库存（Finalizing 态）。
// 不限量饰品跳过；受影响 0 行说明校验后被并发订单抢占。
func (s *CheckoutService) finalizeStock(demands []charmDemand) error {
	for _, demand := range demands {
		if !demand.Charm.HasLimitedStock() {
			continue
		}
		affected, err := s.charmRepo.DecrementStock(demand.Charm.ID, demand.Needed)
		if err != nil {
			return fmt.Errorf("%w: charm %d: %v", ErrInventoryReconciliation, demand.Charm.ID, err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: charm %d lost stock race", ErrInventoryReconciliation, demand.Charm.ID)
		}
	}
	return nil
}

func (s *CheckoutService) composeResult(orders []models.Order, demands []charmDemand, customer CustomerInfo) *CheckoutResult {
	lines := make([]BreakdownLine, 0, len(demands))
	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(order.TotalAmount.Decimal).Round(2)
	}
	for _, demand := range demands {
		lines = append(lines, BreakdownLine{
			Charm:     demand.Charm,
			Count:     demand.Needed,
			LineTotal: demand.Charm.Price.MulInt(demand.Needed),
		})
	}
	totalMoney := models.NewMoneyFromDecimal(total)
	summary := BuildHandoffSummary(HandoffInput{
		StoreName: s.storeName,
		Orders:    orders,
		Customer:  customer,
		Lines:     lines,
		Total:     totalMoney,
		Currency:  s.currency,
	})
	link := BuildMessengerLink(s.messengerPage, orders)
	qr := BuildHandoffQR(link)
	return &CheckoutResult{
		Orders:        orders,
		Summary:       summary,
		MessengerLink: link,
		HandoffQRPNG:  qr,
		Demand:        lines,
		TotalAmount:   totalMoney,
	}
}

func (s *CheckoutService) newOrderRow(orderNo string, input CheckoutInput, now time.Time, total models.Money) models.Order {
	customer := input.Customer
	return models.Order{
		OrderNo:        orderNo,
		Status:         constants.OrderStatusAwaitingConfirmation,
		Currency:       s.currency,
		TotalAmount:    total,
		CustomerName:   strings.TrimSpace(customer.Name),
		Phone:          strings.TrimSpace(customer.Phone),
		Email:          strings.TrimSpace(customer.Email),
		HouseNumber:    strings.TrimSpace(customer.HouseNumber),
		Street:         strings.TrimSpace(customer.Street),
		Barangay:       strings.TrimSpace(customer.Barangay),
		City:           strings.TrimSpace(customer.City),
		Province:       strings.TrimSpace(customer.Province),
		Region:         strings.TrimSpace(customer.Region),
		Zip:            strings.TrimSpace(customer.Zip),
		PaymentMethod:  customer.PaymentMethod,
		DeliveryMethod: customer.DeliveryMethod,
		Notes:          strings.TrimSpace(customer.Notes),
		ClientIP:       strings.TrimSpace(input.ClientIP),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// aggregateCharmDemand 跨手链与散装条目汇总每个饰品的总需求，
// 顺序为遍历中的首次出现顺序。
func aggregateCharmDemand(cart *Cart) []charmDemand {
	demands := make([]charmDemand, 0)
	indexMap := make(map[uint]int)
	add := func(charm models.Charm, count int) {
		if charm.ID == 0 || count <= 0 {
			return
		}
		if idx, ok := indexMap[charm.ID]; ok {
			demands[idx].Needed += count
			return
		}
		indexMap[charm.ID] = len(demands)
		demands = append(demands, charmDemand{Charm: charm.Snapshot(), Needed: count})
	}
	for i := range cart.Bracelets {
		for _, slot := range cart.Bracelets[i].Slots {
			if slot == nil {
				continue
			}
			add(*slot, 1)
		}
	}
	for _, item := range cart.CharmItems {
		add(item.Charm, item.Quantity)
	}
	return demands
}

// collapseCharmItems 将散装条目按饰品合并为订单行（保持首次出现顺序）
func collapseCharmItems(items []CartCharmItem) []BreakdownLine {
	lines := make([]BreakdownLine, 0, len(items))
	indexMap := make(map[uint]int)
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if idx, ok := indexMap[item.Charm.ID]; ok {
			lines[idx].Count += item.Quantity
			continue
		}
		indexMap[item.Charm.ID] = len(lines)
		lines = append(lines, BreakdownLine{
			Charm: item.Charm.Snapshot(),
			Count: item.Quantity,
		})
	}
	for i := range lines {
		lines[i].LineTotal = lines[i].Charm.Price.MulInt(lines[i].Count)
	}
	return lines
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("CS%s%s", now, randNumeric(6))
}

// buildOrderNo 多张订单共用基础单号并追加序号
func buildOrderNo(baseNo string, seq, total int) string {
	if total <= 1 {
		return baseNo
	}
	return fmt.Sprintf("%s-%02d", baseNo, seq)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

func stripNonDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
