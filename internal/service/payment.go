package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
	"rentalapi/internal/storage"
	"rentalapi/internal/upload"
)

// PaymentInput carries the client supplied payment fields. Nil fields are
// absent from the request; on update they keep the stored value.
type PaymentInput struct {
	ContractID     *int64           `json:"contrato_id" validate:"required,gt=0"`
	Period         *time.Time       `json:"periodo" validate:"required"`
	PaidAt         *time.Time       `json:"fecha_pago"`
	ExpectedAmount *decimal.Decimal `json:"monto_esperado" validate:"required"`
	PaidAmount     *decimal.Decimal `json:"monto_pagado"`
	Method         *string          `json:"metodo"`
	StateID        *int64           `json:"estado_id" validate:"omitempty,gt=0"`
	TypeID         *int64           `json:"tipo_pago_id" validate:"omitempty,gt=0"`
	Notes          *string          `json:"notas"`

	// PaidAtSet reports that fecha_pago was present in the request, so a nil
	// PaidAt clears the stored date.
	PaidAtSet bool `json:"-"`
}

// PaymentService manages payment records and their proof/receipt files.
type PaymentService interface {
	// Create validates the input and files, stores accepted files in the
	// active storage backend and inserts the row.
	Create(ctx context.Context, in PaymentInput, proof, receipt *upload.File) (*model.Payment, error)

	// Update merges the input into the stored row, replacing files for the
	// slots that received a new one.
	Update(ctx context.Context, id int64, in PaymentInput, proof, receipt *upload.File) (*model.Payment, error)

	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Payment, error)
	List(ctx context.Context) ([]model.Payment, error)

	// ListByContract returns a contract's payments, newest period first.
	ListByContract(ctx context.Context, contractID int64) ([]model.Payment, error)

	// ListDebts returns payments in the pending or overdue state.
	ListDebts(ctx context.Context) ([]model.Payment, error)

	// ListGroupedByContract returns every contract with its payments in
	// ascending period order. Relative file locations are resolved against baseURL.
	ListGroupedByContract(ctx context.Context, baseURL string) ([]model.ContractPayments, error)

	// OpenFile reads back the proof (FileProof) or receipt (FileReceipt) of a
	// payment. The caller closes the reader.
	OpenFile(ctx context.Context, id int64, file string) (io.ReadCloser, storage.ObjectInfo, error)
}

// Payment file names accepted by OpenFile.
const (
	FileProof   = "comprobante"
	FileReceipt = "recibo"
)

// FileStore keeps payment files in the active storage backend.
type FileStore interface {
	Store(ctx context.Context, folder, originalName string, r io.Reader, size int64, contentType string) (storage.Object, error)
	Remove(ctx context.Context, obj storage.Object) error
	Open(ctx context.Context, obj storage.Object) (io.ReadCloser, storage.ObjectInfo, error)
	SignedURL(ctx context.Context, obj storage.Object, ttl time.Duration) (string, error)
}

// FileSpool gives access to files spooled from the request.
type FileSpool interface {
	Open(f *upload.File) (afero.File, error)
	DetectImage(f *upload.File) error
	Remove(files ...*upload.File)
}

// PaymentDeps groups PaymentService collaborators.
type PaymentDeps struct {
	Payments  repository.PaymentRepository
	Contracts repository.ContractRepository
	Files     FileStore
	Spool     FileSpool
	Log       zerolog.Logger
	// PurgeOnDelete also removes stored files when a payment row is deleted.
	PurgeOnDelete bool
	// SignedURLTTL > 0 replaces bucket URLs in grouped listings with
	// presigned ones valid that long.
	SignedURLTTL time.Duration
	Now          func() time.Time
}

type paymentService struct {
	repo      repository.PaymentRepository
	contracts repository.ContractRepository
	files     FileStore
	spool     FileSpool
	log       zerolog.Logger
	purge     bool
	signTTL   time.Duration
	now       func() time.Time
}

// NewPaymentService constructs a new PaymentService.
func NewPaymentService(d PaymentDeps) PaymentService {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &paymentService{
		repo:      d.Payments,
		contracts: d.Contracts,
		files:     d.Files,
		spool:     d.Spool,
		log:       d.Log,
		purge:     d.PurgeOnDelete,
		signTTL:   d.SignedURLTTL,
		now:       now,
	}
}

// fileSlot describes one of the two attachment columns of a payment.
type fileSlot struct {
	folder   string
	location func(p *model.Payment) **string
	key      func(p *model.Payment) **string
}

var (
	proofSlot = fileSlot{
		folder:   storage.FolderProofs,
		location: func(p *model.Payment) **string { return &p.ProofURL },
		key:      func(p *model.Payment) **string { return &p.ProofKey },
	}
	receiptSlot = fileSlot{
		folder:   storage.FolderReceipts,
		location: func(p *model.Payment) **string { return &p.ReceiptURL },
		key:      func(p *model.Payment) **string { return &p.ReceiptKey },
	}
)

var fileSlots = map[string]fileSlot{
	FileProof:   proofSlot,
	FileReceipt: receiptSlot,
}

func (sl fileSlot) object(p *model.Payment) storage.Object {
	var obj storage.Object
	if loc := *sl.location(p); loc != nil {
		obj.Location = *loc
	}
	if key := *sl.key(p); key != nil {
		obj.Key = *key
	}
	return obj
}

func (sl fileSlot) set(p *model.Payment, obj storage.Object) {
	loc, key := obj.Location, obj.Key
	*sl.location(p) = &loc
	*sl.key(p) = &key
}

func (s *paymentService) Create(ctx context.Context, in PaymentInput, proof, receipt *upload.File) (*model.Payment, error) {
	defer s.spool.Remove(proof, receipt)

	if err := validatePayment(in); err != nil {
		return nil, err
	}
	// rows from before states and types existed may lack them; new ones may not
	if in.StateID == nil {
		return nil, invalid("estado_id", "is required")
	}
	if in.TypeID == nil {
		return nil, invalid("tipo_pago_id", "is required")
	}
	if err := s.checkImages(proof, receipt); err != nil {
		return nil, err
	}

	paid := decimal.Zero
	if in.PaidAmount != nil {
		paid = *in.PaidAmount
	}
	p := &model.Payment{
		ContractID:     *in.ContractID,
		Period:         *in.Period,
		PaidAt:         in.PaidAt,
		ExpectedAmount: *in.ExpectedAmount,
		PaidAmount:     paid,
		Method:         blankToNil(in.Method),
		StateID:        in.StateID,
		TypeID:         in.TypeID,
		Notes:          blankToNil(in.Notes),
	}

	stored, err := s.storeFiles(ctx, p, proof, receipt)
	if err != nil {
		return nil, err
	}

	out, err := s.repo.Create(ctx, p)
	if err != nil {
		s.discard(ctx, stored...)
		return nil, classify("payment", err)
	}
	return out, nil
}

func (s *paymentService) Update(ctx context.Context, id int64, in PaymentInput, proof, receipt *upload.File) (*model.Payment, error) {
	defer s.spool.Remove(proof, receipt)

	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("payment", err)
	}

	merged := mergePayment(cur, in)
	if err := validatePayment(merged); err != nil {
		return nil, err
	}
	if err := s.checkImages(proof, receipt); err != nil {
		return nil, err
	}

	p := &model.Payment{
		ID:             cur.ID,
		ContractID:     *merged.ContractID,
		Period:         *merged.Period,
		PaidAt:         merged.PaidAt,
		ExpectedAmount: *merged.ExpectedAmount,
		PaidAmount:     *merged.PaidAmount,
		Method:         blankToNil(merged.Method),
		StateID:        merged.StateID,
		TypeID:         merged.TypeID,
		Notes:          blankToNil(merged.Notes),
		ProofURL:       cur.ProofURL,
		ProofKey:       cur.ProofKey,
		ReceiptURL:     cur.ReceiptURL,
		ReceiptKey:     cur.ReceiptKey,
		CreatedAt:      cur.CreatedAt,
		UpdatedAt:      s.now().UTC(),
	}

	var superseded []storage.Object
	for _, sf := range []struct {
		slot fileSlot
		file *upload.File
	}{{proofSlot, proof}, {receiptSlot, receipt}} {
		if sf.file == nil {
			continue
		}
		if old := sf.slot.object(cur); old.Location != "" || old.Key != "" {
			superseded = append(superseded, old)
		}
	}

	stored, err := s.storeFiles(ctx, p, proof, receipt)
	if err != nil {
		return nil, err
	}

	out, err := s.repo.Update(ctx, p)
	if err != nil {
		s.discard(ctx, stored...)
		return nil, classify("payment", err)
	}

	// the row no longer points at the old objects
	s.discard(ctx, superseded...)
	return out, nil
}

func (s *paymentService) Delete(ctx context.Context, id int64) error {
	if !s.purge {
		return classifyDelete("payment", s.repo.Delete(ctx, id))
	}

	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return classify("payment", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return classifyDelete("payment", err)
	}
	s.discard(ctx, proofSlot.object(cur), receiptSlot.object(cur))
	return nil
}

func (s *paymentService) Get(ctx context.Context, id int64) (*model.Payment, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("payment", err)
	}
	return p, nil
}

func (s *paymentService) List(ctx context.Context) ([]model.Payment, error) {
	return s.repo.List(ctx, repository.PaymentFilter{})
}

func (s *paymentService) ListByContract(ctx context.Context, contractID int64) ([]model.Payment, error) {
	if contractID <= 0 {
		return nil, invalid("contratoId", "must be a positive integer")
	}
	return s.repo.List(ctx, repository.PaymentFilter{ContractID: contractID, Order: repository.OrderPeriodDesc})
}

func (s *paymentService) ListDebts(ctx context.Context) ([]model.Payment, error) {
	return s.repo.List(ctx, repository.PaymentFilter{StateNames: []string{model.StatePending, model.StateOverdue}})
}

func (s *paymentService) ListGroupedByContract(ctx context.Context, baseURL string) ([]model.ContractPayments, error) {
	contracts, err := s.contracts.List(ctx, repository.ContractQuery{Scope: repository.ScopeAll})
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.List(ctx, repository.PaymentFilter{Order: repository.OrderPeriodAsc})
	if err != nil {
		return nil, err
	}

	byContract := make(map[int64][]model.GroupedPayment, len(contracts))
	for i := range payments {
		p := &payments[i]
		g := groupedPayment(p, baseURL)
		if s.signTTL > 0 {
			s.signURLs(ctx, p, &g)
		}
		byContract[p.ContractID] = append(byContract[p.ContractID], g)
	}

	out := make([]model.ContractPayments, 0, len(contracts))
	for i := range contracts {
		c := &contracts[i]
		group := model.ContractPayments{
			ContractID: c.ID,
			Apartment:  "Sin departamento",
			Tenant:     "Sin inquilino",
			Payments:   byContract[c.ID],
		}
		if c.Apartment != nil && c.Apartment.Name != "" {
			group.Apartment = c.Apartment.Name
		}
		if c.Tenant != nil {
			group.Tenant = c.Tenant.FullName()
		}
		if group.Payments == nil {
			group.Payments = []model.GroupedPayment{}
		}
		out = append(out, group)
	}
	return out, nil
}

func groupedPayment(p *model.Payment, baseURL string) model.GroupedPayment {
	g := model.GroupedPayment{
		ID:             p.ID,
		Period:         p.Period,
		PaidAt:         p.PaidAt,
		ExpectedAmount: p.ExpectedAmount,
		PaidAmount:     p.PaidAmount,
		Notes:          p.Notes,
	}
	if p.State != nil {
		g.State = &model.NamedRef{ID: p.State.ID, Name: p.State.Name}
	}
	if p.Type != nil {
		g.Type = &model.NamedRef{ID: p.Type.ID, Name: p.Type.Name}
	}
	g.ProofPath, g.ProofURL = resolveLocation(p.ProofURL, baseURL)
	g.ReceiptPath, g.ReceiptURL = resolveLocation(p.ReceiptURL, baseURL)
	return g
}

// signURLs swaps the public bucket URLs of g for presigned ones. A file that
// cannot be signed keeps its public URL.
func (s *paymentService) signURLs(ctx context.Context, p *model.Payment, g *model.GroupedPayment) {
	for _, f := range []struct {
		obj storage.Object
		url **string
	}{{proofSlot.object(p), &g.ProofURL}, {receiptSlot.object(p), &g.ReceiptURL}} {
		if !storage.IsRemoteLocation(f.obj.Location) {
			continue
		}
		signed, err := s.files.SignedURL(ctx, f.obj, s.signTTL)
		if err != nil {
			s.log.Warn().Err(err).Int64("payment_id", p.ID).Str("location", f.obj.Location).Msg("failed to sign file url")
			continue
		}
		*f.url = &signed
	}
}

func (s *paymentService) OpenFile(ctx context.Context, id int64, file string) (io.ReadCloser, storage.ObjectInfo, error) {
	slot, ok := fileSlots[file]
	if !ok {
		return nil, storage.ObjectInfo{}, invalid("archivo", "must be one of "+FileProof+" "+FileReceipt)
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, classify("payment", err)
	}
	obj := slot.object(p)
	if obj.Location == "" && obj.Key == "" {
		return nil, storage.ObjectInfo{}, fmt.Errorf("payment %s %w", file, ErrNotFound)
	}
	rc, info, err := s.files.Open(ctx, obj)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, storage.ObjectInfo{}, fmt.Errorf("payment %s %w", file, ErrNotFound)
	}
	if err != nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("open %s: %w", file, err)
	}
	return rc, info, nil
}

// resolveLocation normalizes a stored location and builds a fetchable URL for
// it. Absolute URLs are already fetchable; relative paths are served by this
// host.
func resolveLocation(loc *string, baseURL string) (*string, *string) {
	if loc == nil || *loc == "" {
		return nil, nil
	}
	if storage.IsRemoteLocation(*loc) {
		return loc, loc
	}
	path := strings.TrimPrefix(strings.ReplaceAll(*loc, `\`, "/"), "/")
	url := strings.TrimRight(baseURL, "/") + "/" + path
	return &path, &url
}

func validatePayment(in PaymentInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if err := nonNegative("monto_esperado", in.ExpectedAmount); err != nil {
		return err
	}
	return nonNegative("monto_pagado", in.PaidAmount)
}

// mergePayment overlays the present input fields on the stored payment.
// An empty metodo or notas clears the column.
func mergePayment(cur *model.Payment, in PaymentInput) PaymentInput {
	out := PaymentInput{
		ContractID:     &cur.ContractID,
		Period:         &cur.Period,
		PaidAt:         cur.PaidAt,
		ExpectedAmount: &cur.ExpectedAmount,
		PaidAmount:     &cur.PaidAmount,
		Method:         cur.Method,
		StateID:        cur.StateID,
		TypeID:         cur.TypeID,
		Notes:          cur.Notes,
	}
	if in.ContractID != nil {
		out.ContractID = in.ContractID
	}
	if in.Period != nil {
		out.Period = in.Period
	}
	if in.PaidAtSet || in.PaidAt != nil {
		out.PaidAt = in.PaidAt
	}
	if in.ExpectedAmount != nil {
		out.ExpectedAmount = in.ExpectedAmount
	}
	if in.PaidAmount != nil {
		out.PaidAmount = in.PaidAmount
	}
	if in.Method != nil {
		out.Method = in.Method
	}
	if in.StateID != nil {
		out.StateID = in.StateID
	}
	if in.TypeID != nil {
		out.TypeID = in.TypeID
	}
	if in.Notes != nil {
		out.Notes = in.Notes
	}
	return out
}

// checkImages sniffs every supplied file before anything is stored.
func (s *paymentService) checkImages(files ...*upload.File) error {
	for _, f := range files {
		if f == nil {
			continue
		}
		if err := s.spool.DetectImage(f); err != nil {
			if errors.Is(err, upload.ErrNotImage) {
				return invalid(f.Field, "only image files are allowed")
			}
			return fmt.Errorf("inspect %s: %w", f.Field, err)
		}
	}
	return nil
}

// storeFiles uploads the supplied files and points p at them. On failure the
// objects stored so far are removed.
func (s *paymentService) storeFiles(ctx context.Context, p *model.Payment, proof, receipt *upload.File) ([]storage.Object, error) {
	var stored []storage.Object
	for _, sf := range []struct {
		slot fileSlot
		file *upload.File
	}{{proofSlot, proof}, {receiptSlot, receipt}} {
		if sf.file == nil {
			continue
		}
		obj, err := s.storeOne(ctx, sf.slot.folder, sf.file)
		if err != nil {
			s.discard(ctx, stored...)
			return nil, err
		}
		sf.slot.set(p, obj)
		stored = append(stored, obj)
	}
	return stored, nil
}

func (s *paymentService) storeOne(ctx context.Context, folder string, f *upload.File) (storage.Object, error) {
	r, err := s.spool.Open(f)
	if err != nil {
		return storage.Object{}, fmt.Errorf("open %s: %w", f.Field, err)
	}
	defer r.Close()

	return s.files.Store(ctx, folder, f.OriginalName, r, f.Size, f.ContentType)
}

// discard removes objects best-effort. Failures are logged and never surface.
func (s *paymentService) discard(ctx context.Context, objs ...storage.Object) {
	for _, obj := range objs {
		if obj.Location == "" && obj.Key == "" {
			continue
		}
		if err := s.files.Remove(ctx, obj); err != nil {
			s.log.Warn().Err(err).
				Str("key", obj.Key).
				Str("location", obj.Location).
				Msg("failed to remove stored file")
		}
	}
}
