package emails

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	"github.com/startupwebapp/storefront-backend/pkg/enums"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/outbox"
	"github.com/startupwebapp/storefront-backend/pkg/smtp"
)

const prospectUnsubscribeText = "You are NOT included in our email marketing list. " +
	"If you would like to be added to our marketing email list please reply to this email and let us know."

// SendInput describes one immediate templated send (account emails).
type SendInput struct {
	EmCd       string
	Recipient  string
	MemberID   *uuid.UUID
	ProspectID *uuid.UUID
	Values     map[string]string
}

// Service renders DB templates and delivers mail, both synchronously for
// account flows and asynchronously by draining the outbox.
type Service interface {
	Send(ctx context.Context, input SendInput) error
	DeliverPending(ctx context.Context) (int, error)
}

type service struct {
	repo        *Repository
	outboxRepo  *outbox.Repository
	sender      smtp.Sender
	logg        *logger.Logger
	publicURL   string
	batchSize   int
	maxAttempts int
}

// ServiceParams collects the email service dependencies.
type ServiceParams struct {
	Repo        *Repository
	OutboxRepo  *outbox.Repository
	Sender      smtp.Sender
	Logger      *logger.Logger
	PublicURL   string
	BatchSize   int
	MaxAttempts int
}

// NewService builds the email service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("email repository required")
	}
	if params.OutboxRepo == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if params.BatchSize <= 0 {
		params.BatchSize = 50
	}
	if params.MaxAttempts <= 0 {
		params.MaxAttempts = 5
	}
	return &service{
		repo:        params.Repo,
		outboxRepo:  params.OutboxRepo,
		sender:      params.Sender,
		logg:        params.Logger,
		publicURL:   params.PublicURL,
		batchSize:   params.BatchSize,
		maxAttempts: params.MaxAttempts,
	}, nil
}

// Send renders a template and delivers it right away, logging the send.
func (s *service) Send(ctx context.Context, input SendInput) error {
	template, err := s.repo.FindTemplate(ctx, input.EmCd)
	if err != nil {
		return err
	}
	if template == nil {
		return fmt.Errorf("email template %q not found", input.EmCd)
	}

	values := map[string]string{
		"line_break":         lineBreak + lineBreak,
		"short_line_break":   lineBreak,
		"ENVIRONMENT_DOMAIN": s.publicURL,
		"em_cd":              template.EmCd,
	}
	for key, value := range input.Values {
		values[key] = value
	}

	body, err := Render(template.BodyText, values)
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, smtp.Message{
		From:    template.FromAddress,
		To:      input.Recipient,
		BCC:     template.BCCAddress,
		Subject: template.Subject,
		Body:    body,
	}); err != nil {
		return err
	}

	sent := &models.EmailSent{
		MemberID:        input.MemberID,
		ProspectID:      input.ProspectID,
		EmailTemplateID: template.ID,
		SentAt:          time.Now().UTC(),
	}
	if err := s.repo.CreateEmailSent(ctx, sent); err != nil {
		// Delivery already happened; the missing log row is the lesser loss.
		if s.logg != nil {
			s.logg.Error(ctx, "failed to record sent email", err)
		}
	}
	return nil
}

// DeliverPending drains one batch of outbox rows. Each row is delivered
// independently; one broken row never blocks the rest of the batch. Returns
// the number of rows successfully delivered.
func (s *service) DeliverPending(ctx context.Context) (int, error) {
	rows, err := s.outboxRepo.PendingBatch(ctx, s.batchSize, s.maxAttempts)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, row := range rows {
		if err := s.deliver(ctx, row); err != nil {
			if s.logg != nil {
				s.logg.Error(ctx, "email delivery failed for intent "+row.ID.String(), err)
			}
			if markErr := s.outboxRepo.MarkFailed(ctx, row.ID, err, s.maxAttempts); markErr != nil && s.logg != nil {
				s.logg.Error(ctx, "failed to mark outbox row failed", markErr)
			}
			s.audit(ctx, row, err)
			continue
		}
		delivered++
		if markErr := s.outboxRepo.MarkSent(ctx, row.ID); markErr != nil && s.logg != nil {
			s.logg.Error(ctx, "failed to mark outbox row sent", markErr)
		}
	}
	return delivered, nil
}

// deliveryError tags a failure with the stage it happened in so the audit
// row classifies it.
type deliveryError struct {
	failureType enums.EmailFailureType
	err         error
}

func (e *deliveryError) Error() string {
	return string(e.failureType) + ": " + e.err.Error()
}

func (e *deliveryError) Unwrap() error {
	return e.err
}

func failAt(failureType enums.EmailFailureType, err error) error {
	return &deliveryError{failureType: failureType, err: err}
}

func (s *service) deliver(ctx context.Context, row models.EmailOutbox) error {
	template, err := s.repo.FindTemplate(ctx, row.EmCd)
	if err != nil {
		return failAt(enums.EmailFailureTemplateLookup, err)
	}
	if template == nil {
		return failAt(enums.EmailFailureTemplateLookup, fmt.Errorf("email template %q not found", row.EmCd))
	}

	values, err := s.buildValues(ctx, row, template)
	if err != nil {
		return failAt(enums.EmailFailureFormatting, err)
	}
	body, err := Render(template.BodyText, values)
	if err != nil {
		return failAt(enums.EmailFailureFormatting, err)
	}

	if err := s.sender.Send(ctx, smtp.Message{
		From:    template.FromAddress,
		To:      row.Recipient,
		BCC:     template.BCCAddress,
		Subject: template.Subject,
		Body:    body,
	}); err != nil {
		return failAt(enums.EmailFailureSMTPSend, err)
	}

	sent := &models.EmailSent{
		MemberID:        row.MemberID,
		ProspectID:      row.ProspectID,
		EmailTemplateID: template.ID,
		SentAt:          time.Now().UTC(),
	}
	if err := s.repo.CreateEmailSent(ctx, sent); err != nil {
		// The message is already out the door; record the bookkeeping gap
		// without retrying the send.
		s.audit(ctx, row, failAt(enums.EmailFailureSentLog, err))
	}
	return nil
}

// buildValues assembles the substitution namespace for a row. Order rows get
// the full confirmation blocks; other rows only carry the ambient values.
func (s *service) buildValues(ctx context.Context, row models.EmailOutbox, template *models.EmailTemplate) (map[string]string, error) {
	values := map[string]string{
		"line_break":         lineBreak + lineBreak,
		"short_line_break":   lineBreak,
		"ENVIRONMENT_DOMAIN": s.publicURL,
		"em_cd":              template.EmCd,
	}

	switch {
	case row.MemberID != nil:
		member, err := s.repo.FindMember(ctx, *row.MemberID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, fmt.Errorf("member %s not found", row.MemberID)
		}
		values["mb_cd"] = member.MbCd
	case row.ProspectID != nil:
		prospect, err := s.repo.FindProspect(ctx, *row.ProspectID)
		if err != nil {
			return nil, err
		}
		if prospect == nil {
			return nil, fmt.Errorf("prospect %s not found", row.ProspectID)
		}
		values["pr_cd"] = prospect.PrCd
		values["prosepct_email_unsubscribe_str"] = prospectUnsubscribeText
	}

	if row.OrderID == nil {
		return values, nil
	}

	order, err := s.repo.FindOrder(ctx, *row.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %s not found", row.OrderID)
	}
	skuIDs := make([]uuid.UUID, 0, len(order.SKUs))
	for _, line := range order.SKUs {
		skuIDs = append(skuIDs, line.SKUID)
	}
	products, err := s.repo.ProductsForSKUs(ctx, skuIDs)
	if err != nil {
		return nil, err
	}

	recipientName := ""
	if order.ShippingAddress != nil {
		recipientName = order.ShippingAddress.Name
	}
	var selectedShipping *models.OrderShippingMethod
	if len(order.ShippingMethods) > 0 {
		selectedShipping = &order.ShippingMethods[0]
	}

	values["recipient_first_name"] = recipientName
	values["identifier"] = order.Identifier
	values["order_information"] = orderInfoText(order.Identifier)
	values["product_information"] = productInformationText(order, products)
	values["shipping_information"] = shippingInformationText(selectedShipping)
	values["discount_information"] = discountCodeText(order.Discounts)
	values["order_total_information"] = orderTotalsText(order)
	values["payment_information"] = paymentText(order.Payment)
	if order.ShippingAddress != nil {
		values["shipping_address_information"] = addressText(
			order.ShippingAddress.Name, order.ShippingAddress.Line1,
			order.ShippingAddress.City, order.ShippingAddress.State,
			order.ShippingAddress.PostalCode, order.ShippingAddress.Country,
		)
	}
	if order.BillingAddress != nil {
		values["billing_address_information"] = addressText(
			order.BillingAddress.Name, order.BillingAddress.Line1,
			order.BillingAddress.City, order.BillingAddress.State,
			order.BillingAddress.PostalCode, order.BillingAddress.Country,
		)
	}
	return values, nil
}

// audit writes an OrderEmailFailure for order-bound rows. Rows without an
// order (account emails) only get the outbox error columns.
func (s *service) audit(ctx context.Context, row models.EmailOutbox, deliveryErr error) {
	if row.OrderID == nil {
		return
	}
	failureType := enums.EmailFailureSMTPSend
	var typed *deliveryError
	if errors.As(deliveryErr, &typed) {
		failureType = typed.failureType
	}
	failure := &models.OrderEmailFailure{
		OrderID:     *row.OrderID,
		FailureType: failureType,
		ErrorText:   deliveryErr.Error(),
	}
	if err := s.repo.RecordFailure(ctx, failure); err != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to record email failure audit row", err)
	}
}
