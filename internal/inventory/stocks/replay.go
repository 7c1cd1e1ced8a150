package stocks

import "github.com/SarprasYP/sispras/pkg/models"

// Replay folds log entries into the quantity they imply.
func Replay(entries []models.StockLogEntry) int {
	quantity := 0
	for _, entry := range entries {
		quantity += entry.Delta()
	}
	return quantity
}
