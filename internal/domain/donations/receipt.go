package donations

import (
	"context"
	"fmt"
	"html"

	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/ports/notify"
	"vet-hospital/internal/ports/receipts"
)

// IssuedReceipt es el resultado de emitir un recibo.
type IssuedReceipt struct {
	Donation Donation
	Ref      string
	Emailed  bool
}

func (s *Service) document(d Donation) receipts.Document {
	return receipts.Document{
		Number:    d.ReceiptNumber,
		IssuedAt:  d.DonatedAt,
		DonorName: d.DonorName,
		Amount:    d.Amount,
		Method:    string(d.Method),
		Purpose:   d.Purpose,
		Notes:     d.Notes,
	}
}

// RenderReceipt genera el PDF sin guardarlo.
func (s *Service) RenderReceipt(ctx context.Context, id string) (Donation, []byte, error) {
	if s.renderer == nil {
		return Donation{}, nil, ErrRendererAbsent
	}
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return Donation{}, nil, err
	}
	pdf, err := s.renderer.Render(ctx, s.document(d))
	if err != nil {
		return Donation{}, nil, fmt.Errorf("render receipt %s: %w", d.ReceiptNumber, err)
	}
	return d, pdf, nil
}

// ReceiptKey es la clave de almacenamiento del PDF de una donación.
func ReceiptKey(d Donation) string {
	return fmt.Sprintf("receipts/%04d/%s.pdf", d.DonatedAt.Year(), d.ReceiptNumber)
}

// IssueReceipt renderiza, guarda y, si el donante tiene email, lo notifica.
// El email es best-effort: una falla sólo se loguea.
func (s *Service) IssueReceipt(ctx context.Context, id string) (IssuedReceipt, error) {
	if s.store == nil {
		return IssuedReceipt{}, ErrReceiptsOff
	}
	d, pdf, err := s.RenderReceipt(ctx, id)
	if err != nil {
		return IssuedReceipt{}, err
	}

	key := ReceiptKey(d)
	ref, err := s.store.Put(ctx, key, receipts.ContentTypePDF, pdf)
	if err != nil {
		return IssuedReceipt{}, fmt.Errorf("store receipt %s: %w", d.ReceiptNumber, err)
	}
	if err := s.repo.SetReceiptKey(ctx, d.ID, key); err != nil {
		return IssuedReceipt{}, err
	}
	d.ReceiptKey = key

	out := IssuedReceipt{Donation: d, Ref: ref}
	out.Emailed = s.notifyDonor(ctx, d)
	return out, nil
}

func (s *Service) notifyDonor(ctx context.Context, d Donation) bool {
	if s.mailer == nil || !s.mailer.Enabled() || d.DonorID == "" {
		return false
	}
	donor, err := s.donors.GetDonor(ctx, d.DonorID)
	if err != nil {
		if !apperr.IsNotFound(err) {
			s.log.Warn("load donor for receipt email failed", map[string]any{"donation_id": d.ID, "err": err})
		}
		return false
	}
	if donor.Email == "" {
		return false
	}

	err = s.mailer.Send(ctx, notify.Message{
		To:      donor.Email,
		Subject: "Donation receipt " + d.ReceiptNumber,
		HTML: fmt.Sprintf(
			"<p>Dear %s,</p><p>Thank you for your donation of %.2f (%s). Your receipt number is <b>%s</b>.</p>",
			html.EscapeString(d.DonorName), d.Amount, html.EscapeString(string(d.Method)), html.EscapeString(d.ReceiptNumber),
		),
	})
	if err != nil {
		s.log.Warn("receipt email failed", map[string]any{"donation_id": d.ID, "err": err})
		return false
	}
	return true
}
