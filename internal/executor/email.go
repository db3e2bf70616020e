package executor

import (
	"context"
	"fmt"

	"tipctl/internal/command/email"
	"tipctl/internal/errors"
	"tipctl/internal/models"
)

func (e *Executor) executeMailBox(ctx context.Context, sub email.Command[string]) (interface{}, error) {
	switch c := sub.(type) {
	case email.List[string]:
		return apiCall(e.client.MailBoxes(ctx, c.Domain))
	case email.Item[string]:
		return apiCall(e.client.MailBox(ctx, c.Domain, c.ID))
	case email.Delete[string]:
		return nil, apiError(e.client.DeleteMailBox(ctx, c.Domain, c.ID))
	case email.Insert[string]:
		input, err := mailBoxInput(c.Value)
		if err != nil {
			return nil, err
		}
		return nil, apiError(e.client.InsertMailBox(ctx, c.Domain, input))
	case email.Update[string]:
		input, err := mailBoxInput(c.Value)
		if err != nil {
			return nil, err
		}
		return nil, apiError(e.client.UpdateMailBox(ctx, c.Domain, c.ID, input))
	default:
		panic(fmt.Sprintf("executor: unhandled mailbox command %T", sub))
	}
}

func (e *Executor) executeMailForward(ctx context.Context, sub email.Command[string]) (interface{}, error) {
	switch c := sub.(type) {
	case email.List[string]:
		return apiCall(e.client.MailForwards(ctx, c.Domain))
	case email.Item[string]:
		return apiCall(e.client.MailForward(ctx, c.Domain, c.ID))
	case email.Delete[string]:
		return nil, apiError(e.client.DeleteMailForward(ctx, c.Domain, c.ID))
	case email.Insert[string]:
		forward, err := mailForward(c.Value)
		if err != nil {
			return nil, err
		}
		return nil, apiError(e.client.InsertMailForward(ctx, c.Domain, forward))
	case email.Update[string]:
		forward, err := mailForward(c.Value)
		if err != nil {
			return nil, err
		}
		return nil, apiError(e.client.UpdateMailForward(ctx, c.Domain, c.ID, forward))
	default:
		panic(fmt.Sprintf("executor: unhandled mail forward command %T", sub))
	}
}

func mailBoxInput(value string) (models.MailBoxInput, error) {
	input, err := models.ParseMailBoxInput(value)
	if err != nil {
		return models.MailBoxInput{}, errors.ValidationErrorWithCause("invalid mailbox value", err).
			WithSuggestion("Use: <local-part> <password> <max-disk-usage-mb> [forward-to]")
	}
	return input, nil
}

func mailForward(value string) (models.MailForward, error) {
	forward, err := models.ParseMailForward(value)
	if err != nil {
		return models.MailForward{}, errors.ValidationErrorWithCause("invalid mail forward value", err).
			WithSuggestion("Use: <local-part> <forward-to>")
	}
	return forward, nil
}
