package utils

import (
	"checkout-service/internal/pkg/constvars"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

// GenerateReceiptObjectKey names a transfer receipt object inside the receipt bucket.
func GenerateReceiptObjectKey(sessionID, fileExtension string) string {
	timestamp := time.Now().UTC().Format("20060102_150405.000000000")
	return fmt.Sprintf(constvars.ReceiptObjectKeyFormat, sessionID, timestamp, fileExtension)
}
