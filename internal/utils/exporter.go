package utils

import (
	"fmt"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
)

func ExportData(batchID string, logs []models.AuditLog) error {
	for _, log := range logs {
		//change with actual calls
		fmt.Println(batchID, log.Timestamp, log.ID, log.Entity, log.Action)
	}
	return nil
}
