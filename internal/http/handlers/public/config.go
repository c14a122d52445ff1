package public

import (
	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetConfig 店面全局配置
func (h *Handler) GetConfig(c *gin.Context) {
	cfg := h.Config
	sizes := make([]int, 0, constants.BraceletSizeMax-constants.BraceletSizeMin+1)
	for size := constants.BraceletSizeMin; size <= constants.BraceletSizeMax; size++ {
		sizes = append(sizes, size)
	}
	response.Success(c, gin.H{
		"store_name":        cfg.Store.Name,
		"currency":          cfg.Store.Currency,
		"messenger_page":    cfg.Store.MessengerPage,
		"bracelet_sizes":    sizes,
		"starting_charm_id": cfg.Store.StartingCharmID,
		"payment_methods":   constants.PaymentMethodLabels,
		"delivery_methods":  constants.DeliveryMethodLabels,
	})
}
