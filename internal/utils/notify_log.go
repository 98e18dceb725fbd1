package utils

import (
	"context"
	"fmt"
)

// Notification delivery is an external collaborator; this mock log is the
// handler-side hook fired when an attendance event just expired a trial.
func AppendToNotifyLog(ctx context.Context, memberID, subscriptionID string) {
	fmt.Printf("[NOTIFY LOG] Member %s trial expired on subscription %s\n", memberID, subscriptionID)
}
