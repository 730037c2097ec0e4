// Package recaudacion is the client core of the collection console: the
// record store with optimistic edits, the totals calculator, the spreadsheet
// mapping reconciler and the attachment and export glue.
package recaudacion

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/worker"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Field is an editable numeric column of a detail row.
type Field string

const (
	FieldRetiradaEfectivo Field = "retirada_efectivo"
	FieldCajon            Field = "cajon"
	FieldPagoManual       Field = "pago_manual"
	FieldTasaAjuste       Field = "tasa_ajuste"

	// FieldDetalleTasa is the free-text fee note; see SetFeeDetail.
	FieldDetalleTasa Field = "detalle_tasa"
)

// Fields lists the numeric columns in display order.
var Fields = []Field{FieldRetiradaEfectivo, FieldCajon, FieldPagoManual, FieldTasaAjuste}

func ParseField(s string) (Field, bool) {
	for _, f := range append(Fields, FieldDetalleTasa) {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// GlobalField is an editable record-level amount.
type GlobalField string

const (
	GlobalTotalTasas     GlobalField = "total_tasas"
	GlobalDepositos      GlobalField = "depositos"
	GlobalOtrosConceptos GlobalField = "otros_conceptos"
)

func ParseGlobalField(s string) (GlobalField, bool) {
	switch g := GlobalField(s); g {
	case GlobalTotalTasas, GlobalDepositos, GlobalOtrosConceptos:
		return g, true
	}
	return "", false
}

// SaveState is the persistence state of one field.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveSaving
	SaveSaved
	SaveFailed
)

func (s SaveState) String() string {
	switch s {
	case SaveSaving:
		return "guardando"
	case SaveSaved:
		return "guardado"
	case SaveFailed:
		return "error"
	default:
		return "-"
	}
}

type FieldStatus struct {
	State     SaveState
	Err       error
	UpdatedAt time.Time
}

// FieldRef names a field of a row, or a global field when RowID is 0.
type FieldRef struct {
	RowID int64
	Field string
}

const defaultSaveTimeout = 15 * time.Second

// Store holds one collection record in memory. Edits are applied locally
// first and persisted field by field; a failed save keeps the local value
// and marks the field as failed. Store is safe for concurrent use.
type Store struct {
	api         RecordAPI
	saveTimeout time.Duration
	pool        *worker.Dispatcher

	mu     sync.RWMutex
	rec    *dto.RecaudacionResponse
	status map[FieldRef]FieldStatus
	seq    map[FieldRef]uint64
}

type Option func(*Store)

// WithSaveTimeout bounds every persistence call.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) { s.saveTimeout = d }
}

// WithDispatcher enables PersistFieldAsync on the given pool.
func WithDispatcher(d *worker.Dispatcher) Option {
	return func(s *Store) { s.pool = d }
}

func NewStore(api RecordAPI, opts ...Option) *Store {
	s := &Store{
		api:         api,
		saveTimeout: defaultSaveTimeout,
		status:      map[FieldRef]FieldStatus{},
		seq:         map[FieldRef]uint64{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load fetches a record and replaces the held state. On failure the
// previous state is untouched; the error wraps apiclient.ErrNotFound or
// apiclient.ErrTransient as appropriate.
func (s *Store) Load(ctx context.Context, id int64) error {
	rec, err := s.api.GetRecaudacion(ctx, id)
	if err != nil {
		log.Error().Int64("recaudacion_id", id).Err(err).Msg("load failed")
		return fmt.Errorf("recaudacion: cargar %d: %w", id, err)
	}
	SortDetalles(rec.Detalles)

	s.mu.Lock()
	s.rec = rec
	s.status = map[FieldRef]FieldStatus{}
	s.seq = map[FieldRef]uint64{}
	s.mu.Unlock()
	log.Debug().Int64("recaudacion_id", id).Int("detalles", len(rec.Detalles)).Msg("recaudacion loaded")
	return nil
}

// Reload fetches the held record again.
func (s *Store) Reload(ctx context.Context) error {
	id := s.ID()
	if id == 0 {
		return ErrNotLoaded
	}
	return s.Load(ctx, id)
}

// ID is the id of the held record, 0 when none.
func (s *Store) ID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return 0
	}
	return s.rec.ID
}

// Snapshot returns a copy of the held record, nil when none.
func (s *Store) Snapshot() *dto.RecaudacionResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return nil
	}
	cp := *s.rec
	cp.Detalles = append([]dto.DetalleResponse(nil), s.rec.Detalles...)
	cp.Ficheros = append([]dto.FicheroResponse(nil), s.rec.Ficheros...)
	if s.rec.TotalTasas != nil {
		tt := *s.rec.TotalTasas
		cp.TotalTasas = &tt
	}
	return &cp
}

// Totals computes the aggregates of the held record.
func (s *Store) Totals() Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return Compute(nil, Globales{})
	}
	return Compute(s.rec.Detalles, GlobalesDe(s.rec))
}

// ApplyLocalEdit sets a numeric column of a row. Editing tasa_ajuste also
// sets tasa_final to tasa_calculada + value. Unknown rows or fields are
// ignored; the result reports whether anything was applied.
func (s *Store) ApplyLocalEdit(rowID int64, field Field, value decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.row(rowID)
	if d == nil {
		return false
	}
	switch field {
	case FieldRetiradaEfectivo:
		d.RetiradaEfectivo = value
	case FieldCajon:
		d.Cajon = value
	case FieldPagoManual:
		d.PagoManual = value
	case FieldTasaAjuste:
		d.TasaAjuste = value
		d.TasaFinal = d.TasaCalculada.Add(value)
	default:
		return false
	}
	return true
}

// SetFeeDetail sets the free-text fee note of a row.
func (s *Store) SetFeeDetail(rowID int64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.row(rowID)
	if d == nil {
		return false
	}
	d.DetalleTasa = text
	return true
}

// PersistField writes one numeric column of a row. It is a single attempt:
// on failure the local value stays, the field is marked failed and the
// error is returned. A successful tasa_ajuste save adopts the server's
// fee when no newer adjustment is pending; any other save keeps
// tasa_final = tasa_calculada + tasa_ajuste from the local row.
func (s *Store) PersistField(ctx context.Context, rowID int64, field Field, value decimal.Decimal) error {
	var req dto.ActualizarDetalleRequest
	v := value
	switch field {
	case FieldRetiradaEfectivo:
		req.RetiradaEfectivo = &v
	case FieldCajon:
		req.Cajon = &v
	case FieldPagoManual:
		req.PagoManual = &v
	case FieldTasaAjuste:
		req.TasaAjuste = &v
	default:
		return fmt.Errorf("recaudacion: campo %q no editable", field)
	}
	return s.persistDetalle(ctx, rowID, string(field), req)
}

// PersistFeeDetail writes the fee note of a row.
func (s *Store) PersistFeeDetail(ctx context.Context, rowID int64, text string) error {
	t := text
	return s.persistDetalle(ctx, rowID, string(FieldDetalleTasa), dto.ActualizarDetalleRequest{DetalleTasa: &t})
}

// Edit applies a change locally and persists it.
func (s *Store) Edit(ctx context.Context, rowID int64, field Field, value decimal.Decimal) error {
	s.ApplyLocalEdit(rowID, field, value)
	return s.PersistField(ctx, rowID, field, value)
}

// PersistFieldAsync queues PersistField on the dispatcher. done, when not
// nil, receives the outcome.
func (s *Store) PersistFieldAsync(rowID int64, field Field, value decimal.Decimal, done func(error)) error {
	if s.pool == nil {
		return ErrNoDispatcher
	}
	return s.pool.Submit(worker.Job{
		Name: fmt.Sprintf("detalle %d %s", rowID, field),
		Run: func(ctx context.Context) error {
			return s.PersistField(ctx, rowID, field, value)
		},
		Done: done,
	})
}

func (s *Store) persistDetalle(ctx context.Context, rowID int64, field string, req dto.ActualizarDetalleRequest) error {
	ref := FieldRef{RowID: rowID, Field: field}
	seq := s.begin(ref)

	ctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	resp, err := s.api.UpdateDetalle(ctx, rowID, req)
	if err != nil {
		s.finish(ref, seq, err)
		log.Error().Int64("detalle_id", rowID).Str("field", field).Err(err).Msg("save failed, keeping local value")
		return fmt.Errorf("recaudacion: guardar %s de la fila %d: %w", field, rowID, err)
	}

	s.mu.Lock()
	if d := s.row(rowID); d != nil {
		// The server's fee only wins for the adjustment it just stored.
		if field == string(FieldTasaAjuste) && s.seq[ref] == seq && resp != nil && resp.TasaAjuste.Equal(d.TasaAjuste) {
			d.TasaCalculada = resp.TasaCalculada
			d.TasaFinal = resp.TasaFinal
		} else {
			d.TasaFinal = d.TasaCalculada.Add(d.TasaAjuste)
		}
	}
	s.mu.Unlock()
	s.finish(ref, seq, nil)
	return nil
}

// UpdateGlobalField applies a record-level amount locally and persists it.
func (s *Store) UpdateGlobalField(ctx context.Context, field GlobalField, value decimal.Decimal) error {
	v := value
	var req dto.ActualizarRecaudacionRequest
	switch field {
	case GlobalTotalTasas:
		req.TotalTasas = dto.Valor(v)
	case GlobalDepositos:
		req.Depositos = &v
	case GlobalOtrosConceptos:
		req.OtrosConceptos = &v
	default:
		return fmt.Errorf("recaudacion: campo global %q desconocido", field)
	}

	s.mu.Lock()
	if s.rec == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	switch field {
	case GlobalTotalTasas:
		s.rec.TotalTasas = &v
	case GlobalDepositos:
		s.rec.Depositos = v
	case GlobalOtrosConceptos:
		s.rec.OtrosConceptos = v
	}
	s.mu.Unlock()

	return s.persistGlobal(ctx, string(field), req)
}

// ClearFeeOverride removes the fee override so no override applies.
func (s *Store) ClearFeeOverride(ctx context.Context) error {
	s.mu.Lock()
	if s.rec == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.rec.TotalTasas = nil
	s.mu.Unlock()
	return s.persistGlobal(ctx, string(GlobalTotalTasas), dto.ActualizarRecaudacionRequest{
		TotalTasas: dto.Nulo[decimal.Decimal](),
	})
}

func (s *Store) persistGlobal(ctx context.Context, field string, req dto.ActualizarRecaudacionRequest) error {
	id := s.ID()
	ref := FieldRef{Field: field}
	seq := s.begin(ref)

	ctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	if _, err := s.api.UpdateRecaudacion(ctx, id, req); err != nil {
		s.finish(ref, seq, err)
		log.Error().Int64("recaudacion_id", id).Str("field", field).Err(err).Msg("save failed, keeping local value")
		return fmt.Errorf("recaudacion: guardar %s: %w", field, err)
	}
	s.finish(ref, seq, nil)
	return nil
}

// Status returns the persistence state of a row field.
func (s *Store) Status(rowID int64, field Field) FieldStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[FieldRef{RowID: rowID, Field: string(field)}]
}

// GlobalStatus returns the persistence state of a record-level field.
func (s *Store) GlobalStatus(field GlobalField) FieldStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[FieldRef{Field: string(field)}]
}

// Failed lists the fields whose latest save failed.
func (s *Store) Failed() map[FieldRef]error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[FieldRef]error{}
	for ref, st := range s.status {
		if st.State == SaveFailed {
			out[ref] = st.Err
		}
	}
	return out
}

// begin marks a field as saving and returns the attempt number.
func (s *Store) begin(ref FieldRef) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[ref]++
	s.status[ref] = FieldStatus{State: SaveSaving, UpdatedAt: time.Now()}
	return s.seq[ref]
}

// finish records the outcome of attempt seq unless a newer attempt started.
func (s *Store) finish(ref FieldRef, seq uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq[ref] != seq {
		return
	}
	st := FieldStatus{State: SaveSaved, UpdatedAt: time.Now()}
	if err != nil {
		st = FieldStatus{State: SaveFailed, Err: err, UpdatedAt: time.Now()}
	}
	s.status[ref] = st
}

// row returns the held row with the given id. Callers hold s.mu.
func (s *Store) row(id int64) *dto.DetalleResponse {
	if s.rec == nil {
		return nil
	}
	for i := range s.rec.Detalles {
		if s.rec.Detalles[i].ID == id {
			return &s.rec.Detalles[i]
		}
	}
	return nil
}

// SortDetalles orders rows by machine name, Spanish collation ignoring case,
// then by seat number. Rows without a seat sort first within their machine.
func SortDetalles(rows []dto.DetalleResponse) {
	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		if c := col.CompareString(nombreMaquina(rows[i]), nombreMaquina(rows[j])); c != 0 {
			return c < 0
		}
		return numeroPuesto(rows[i]) < numeroPuesto(rows[j])
	})
}

func nombreMaquina(d dto.DetalleResponse) string {
	if d.Maquina == nil {
		return ""
	}
	return d.Maquina.Nombre
}

func numeroPuesto(d dto.DetalleResponse) int {
	if d.Puesto == nil {
		return 0
	}
	return d.Puesto.NumeroPuesto
}
