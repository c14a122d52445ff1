package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/logger"
	"github.com/charmsmith/internal/models"

	qrcode "github.com/skip2/go-qrcode"
)

// HandoffInput 交接摘要输入
type HandoffInput struct {
	StoreName string
	Orders    []models.Order
	Customer  CustomerInfo
	Lines     []BreakdownLine
	Total     models.Money
	Currency  string
}

// BuildHandoffSummary 组装发往 Messenger 的人类可读订单摘要。
// 字段顺序与文案面向人工阅读，不存在机器解析方，无需版本化。
func BuildHandoffSummary(input HandoffInput) string {
	var b strings.Builder
	storeName := strings.TrimSpace(input.StoreName)
	if storeName == "" {
		storeName = "Charmsmith"
	}
	b.WriteString(fmt.Sprintf("New order for %s\n", storeName))
	b.WriteString("\n")

	b.WriteString("Order no:")
	for _, order := range input.Orders {
		b.WriteString(" " + order.OrderNo)
	}
	b.WriteString("\n\n")

	customer := input.Customer
	b.WriteString("Customer\n")
	b.WriteString(fmt.Sprintf("  Name: %s\n", strings.TrimSpace(customer.Name)))
	b.WriteString(fmt.Sprintf("  Phone: %s\n", strings.TrimSpace(customer.Phone)))
	if email := strings.TrimSpace(customer.Email); email != "" {
		b.WriteString(fmt.Sprintf("  Email: %s\n", email))
	}
	b.WriteString(fmt.Sprintf("  Address: %s\n", formatAddress(customer)))
	b.WriteString("\n")

	b.WriteString("Items\n")
	for _, line := range input.Lines {
		b.WriteString(fmt.Sprintf("  %s x%d @ %s = %s %s\n",
			line.Charm.Name,
			line.Count,
			line.Charm.Price.String(),
			line.LineTotal.String(),
			input.Currency,
		))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Total: %s %s\n", input.Total.String(), input.Currency))
	b.WriteString(fmt.Sprintf("Payment: %s\n", methodLabel(constants.PaymentMethodLabels, customer.PaymentMethod)))
	b.WriteString(fmt.Sprintf("Delivery: %s\n", methodLabel(constants.DeliveryMethodLabels, customer.DeliveryMethod)))
	if notes := strings.TrimSpace(customer.Notes); notes != "" {
		b.WriteString(fmt.Sprintf("Notes: %s\n", notes))
	}
	return b.String()
}

// BuildMessengerLink 生成跳转 Messenger 的交接链接
func BuildMessengerLink(page string, orders []models.Order) string {
	page = strings.TrimSpace(page)
	if page == "" {
		return ""
	}
	ref := make([]string, 0, len(orders))
	for _, order := range orders {
		ref = append(ref, order.OrderNo)
	}
	link := "https://m.me/" + page
	if len(ref) > 0 {
		link += "?ref=" + url.QueryEscape(strings.Join(ref, ","))
	}
	return link
}

// BuildHandoffQR 生成交接链接二维码（失败只记录，摘要本身不受影响）
func BuildHandoffQR(link string) []byte {
	if strings.TrimSpace(link) == "" {
		return nil
	}
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		logger.Warnw("handoff_qr_encode_failed", "error", err)
		return nil
	}
	return png
}

func formatAddress(customer CustomerInfo) string {
	parts := make([]string, 0, 7)
	for _, part := range []string{
		customer.HouseNumber,
		customer.Street,
		customer.Barangay,
		customer.City,
		customer.Province,
		customer.Region,
		customer.Zip,
	} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

func methodLabel(labels map[string]string, key string) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return key
}
