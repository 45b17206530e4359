// Package stream provides a DynamoDB Streams handler that keeps parent
// back-reference sets aligned with writes to the child tables.
package stream

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"storefront/retail"
	"storefront/store"
)

// Handler repairs back-reference sets from sale and stock-entry stream
// records. It is a safety net behind the synchronous maintenance in the
// repository: a write that slipped past it (a direct table write, a crash
// between child insert and parent push) converges here.
type Handler struct {
	refs   *retail.Refs
	tables retail.Tables
	logger *slog.Logger
}

// NewHandler creates a stream handler over the given store.
func NewHandler(s store.Store, tables retail.Tables, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if tables == (retail.Tables{}) {
		tables = retail.DefaultTables()
	}
	return &Handler{
		refs:   retail.NewRefs(s),
		tables: tables,
		logger: logger,
	}
}

// HandleChildEvents processes a batch of stream records from the sales and
// stock-entries tables. This function is designed to be used as an AWS Lambda
// handler.
func (h *Handler) HandleChildEvents(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord reconciles the back-references for a single stream record.
// All set writes are idempotent, so replays are harmless.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	newParents := h.parents(record.Change.NewImage)
	oldParents := h.parents(record.Change.OldImage)

	childID := getStringAttr(record.Change.NewImage, store.IDAttr)
	if childID == "" {
		childID = getStringAttr(record.Change.OldImage, store.IDAttr)
	}
	if childID == "" {
		return nil // key-only record, nothing to reconcile
	}

	switch record.EventName {
	case "INSERT":
		return h.refs.ChildCreated(ctx, childID, newParents...)

	case "REMOVE":
		return h.refs.ChildRemoved(ctx, childID, oldParents...)

	case "MODIFY":
		if len(oldParents) != len(newParents) {
			return fmt.Errorf("record %s: old and new images disagree on kind", record.EventID)
		}
		for i := range newParents {
			if oldParents[i].ID == newParents[i].ID {
				// Foreign key unchanged; re-assert membership in case an
				// earlier push was lost.
				if err := h.refs.ChildCreated(ctx, childID, newParents[i]); err != nil {
					return err
				}
				continue
			}
			if err := h.refs.ChildMoved(ctx, childID, oldParents[i], newParents[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// parents derives the parent set locators from a stream image. A sale carries
// customerId, a stock entry carries supplierId; both carry itemId.
func (h *Handler) parents(image map[string]events.DynamoDBAttributeValue) []retail.Parent {
	if len(image) == 0 {
		return nil
	}
	itemID := getStringAttr(image, retail.AttrItemID)
	if customerID := getStringAttr(image, retail.AttrCustomerID); customerID != "" {
		return []retail.Parent{
			h.tables.CustomerSales(customerID),
			h.tables.ItemSales(itemID),
		}
	}
	if supplierID := getStringAttr(image, retail.AttrSupplierID); supplierID != "" {
		return []retail.Parent{
			h.tables.ItemStock(itemID),
			h.tables.SupplierStock(supplierID),
		}
	}
	return nil
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeString {
			return v.String()
		}
	}
	return ""
}
