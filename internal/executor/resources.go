package executor

import (
	"context"
	"fmt"

	"tipctl/internal/command/domain"
	"tipctl/internal/command/invoice"
	"tipctl/internal/command/product"
	"tipctl/internal/command/vps"
	"tipctl/internal/models"
)

func (e *Executor) executeDomain(ctx context.Context, sub domain.Command) (interface{}, error) {
	switch c := sub.(type) {
	case domain.List:
		return apiCall(e.client.Domains(ctx))
	case domain.Item:
		return apiCall(e.client.Domain(ctx, c.Domain))
	default:
		panic(fmt.Sprintf("executor: unhandled domain command %T", sub))
	}
}

func (e *Executor) executeInvoice(ctx context.Context, sub invoice.Command) (interface{}, error) {
	switch c := sub.(type) {
	case invoice.List:
		return apiCall(e.client.Invoices(ctx))
	case invoice.Action:
		switch c.Kind {
		case invoice.Item:
			return apiCall(e.client.Invoice(ctx, c.Number))
		case invoice.Pdf:
			return apiCall(e.client.InvoicePDF(ctx, c.Number))
		}
		panic("executor: unhandled invoice kind " + string(c.Kind))
	default:
		panic(fmt.Sprintf("executor: unhandled invoice command %T", sub))
	}
}

func (e *Executor) executeProduct(ctx context.Context, sub product.Command) (interface{}, error) {
	switch c := sub.(type) {
	case product.List:
		return apiCall(e.client.Products(ctx))
	case product.Elements:
		return apiCall(e.client.ProductElements(ctx, c.Name))
	default:
		panic(fmt.Sprintf("executor: unhandled product command %T", sub))
	}
}

var vpsActions = map[vps.Kind]models.VPSAction{
	vps.Lock:   models.VPSLock,
	vps.Unlock: models.VPSUnlock,
	vps.Start:  models.VPSStart,
	vps.Stop:   models.VPSStop,
	vps.Reset:  models.VPSReset,
}

func (e *Executor) executeVPS(ctx context.Context, sub vps.Command) (interface{}, error) {
	switch c := sub.(type) {
	case vps.List:
		return apiCall(e.client.VPSs(ctx))
	case vps.Action:
		if c.Kind == vps.Item {
			return apiCall(e.client.VPS(ctx, c.Name))
		}
		action, ok := vpsActions[c.Kind]
		if !ok {
			panic("executor: unhandled vps kind " + string(c.Kind))
		}
		return nil, apiError(e.client.VPSAction(ctx, c.Name, action))
	default:
		panic(fmt.Sprintf("executor: unhandled vps command %T", sub))
	}
}
