package recaudacion

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/rs/zerolog/log"
)

// MappingState is the phase of an import.
type MappingState int

const (
	MappingIdle MappingState = iota
	MappingAnalyzing
	MappingReviewing
	MappingSubmitting
)

func (s MappingState) String() string {
	switch s {
	case MappingAnalyzing:
		return "analizando"
	case MappingReviewing:
		return "revisando"
	case MappingSubmitting:
		return "importando"
	default:
		return "inactivo"
	}
}

// AssignmentKind tags what a spreadsheet name resolves to.
type AssignmentKind int

const (
	Unset AssignmentKind = iota
	Assigned
	Ignored
)

// Assignment is the resolution of one spreadsheet name. PuestoID is only
// meaningful when Kind is Assigned.
type Assignment struct {
	Kind     AssignmentKind
	PuestoID int64
}

// source is what was analyzed; the import re-sends the same thing.
type source struct {
	filename  string
	content   []byte
	ficheroID int64
}

// Reloader refreshes the record after a successful import.
type Reloader interface {
	Reload(ctx context.Context) error
}

// MappingSession drives the analyze → review → confirm protocol of a
// spreadsheet import for one record. It is safe for concurrent use.
type MappingSession struct {
	api           ImportAPI
	reloader      Reloader
	recaudacionID int64

	mu          sync.RWMutex
	state       MappingState
	src         source
	names       []string
	assignments map[string]Assignment
	puestos     []dto.PuestoDisponible
	lastErr     error
}

func NewMappingSession(api ImportAPI, reloader Reloader, recaudacionID int64) *MappingSession {
	return &MappingSession{
		api:           api,
		reloader:      reloader,
		recaudacionID: recaudacionID,
		assignments:   map[string]Assignment{},
	}
}

func (m *MappingSession) State() MappingState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// LastError is the failure of the latest analysis or submission.
func (m *MappingSession) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// AnalyzeFile sends raw spreadsheet bytes for analysis.
func (m *MappingSession) AnalyzeFile(ctx context.Context, filename string, content []byte) error {
	return m.analyze(source{filename: filename, content: content}, func() (*dto.AnalisisExcelResponse, error) {
		return m.api.AnalyzeExcel(ctx, m.recaudacionID, filename, content)
	})
}

// AnalyzeAttachment analyzes a spreadsheet already attached to the record.
func (m *MappingSession) AnalyzeAttachment(ctx context.Context, ficheroID int64) error {
	return m.analyze(source{ficheroID: ficheroID}, func() (*dto.AnalisisExcelResponse, error) {
		return m.api.AnalyzeFichero(ctx, m.recaudacionID, ficheroID)
	})
}

func (m *MappingSession) analyze(src source, call func() (*dto.AnalisisExcelResponse, error)) error {
	m.mu.Lock()
	if m.state != MappingIdle {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidState, m.state)
	}
	m.state = MappingAnalyzing
	m.lastErr = nil
	m.mu.Unlock()

	resp, err := call()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.reset()
		m.lastErr = err
		log.Error().Int64("recaudacion_id", m.recaudacionID).Err(err).Msg("analysis failed")
		return fmt.Errorf("%w: %w", ErrAnalysisFailure, err)
	}
	m.seed(resp)
	m.src = src
	m.state = MappingReviewing
	log.Debug().Int64("recaudacion_id", m.recaudacionID).Int("nombres", len(m.names)).Msg("analysis ready for review")
	return nil
}

// seed turns the server proposal into editable assignments. A seat proposed
// for two names stays with the first one; the other starts unset, as does a
// name whose candidate is not among the returned seats.
func (m *MappingSession) seed(resp *dto.AnalisisExcelResponse) {
	m.puestos = append([]dto.PuestoDisponible(nil), resp.Puestos...)
	m.names = make([]string, 0, len(resp.Mappings))
	m.assignments = make(map[string]Assignment, len(resp.Mappings))
	known := make(map[int64]bool, len(resp.Puestos))
	for _, p := range resp.Puestos {
		known[p.ID] = true
	}
	used := map[int64]bool{}
	for _, mp := range resp.Mappings {
		if _, dup := m.assignments[mp.ExcelName]; dup {
			continue
		}
		m.names = append(m.names, mp.ExcelName)
		a := Assignment{Kind: Unset}
		switch {
		case mp.IsIgnored:
			a = Assignment{Kind: Ignored}
		case mp.PuestoID != nil && known[*mp.PuestoID] && !used[*mp.PuestoID]:
			a = Assignment{Kind: Assigned, PuestoID: *mp.PuestoID}
			used[*mp.PuestoID] = true
		}
		m.assignments[mp.ExcelName] = a
	}
}

// Assign maps name to a seat. A seat already used by another name is
// refused with ErrSeatTaken.
func (m *MappingSession) Assign(name string, puestoID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.reviewable(name); err != nil {
		return err
	}
	if !m.knownSeat(puestoID) {
		return fmt.Errorf("%w: %d", ErrUnknownSeat, puestoID)
	}
	if owner, ok := m.owner(puestoID); ok && owner != name {
		return fmt.Errorf("%w: %d (%s)", ErrSeatTaken, puestoID, owner)
	}
	m.assignments[name] = Assignment{Kind: Assigned, PuestoID: puestoID}
	return nil
}

// Ignore marks name so it is never imported.
func (m *MappingSession) Ignore(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.reviewable(name); err != nil {
		return err
	}
	m.assignments[name] = Assignment{Kind: Ignored}
	return nil
}

// Unassign frees a seat; the name holding it becomes unset. Freeing a seat
// nobody holds is a no-op.
func (m *MappingSession) Unassign(puestoID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != MappingReviewing {
		return fmt.Errorf("%w: %s", ErrInvalidState, m.state)
	}
	if owner, ok := m.owner(puestoID); ok {
		m.assignments[owner] = Assignment{Kind: Unset}
	}
	return nil
}

// Restore brings an ignored name back to unset.
func (m *MappingSession) Restore(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.reviewable(name); err != nil {
		return err
	}
	if m.assignments[name].Kind == Ignored {
		m.assignments[name] = Assignment{Kind: Unset}
	}
	return nil
}

// Assignment returns the current resolution of name.
func (m *MappingSession) Assignment(name string) (Assignment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[name]
	return a, ok
}

// Names returns every analyzed name in analysis order.
func (m *MappingSession) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.names...)
}

// Pending lists the names still waiting for a decision, in analysis order.
func (m *MappingSession) Pending() []string {
	return m.namesOf(Unset)
}

// IgnoredNames lists the names marked as ignored, in analysis order.
func (m *MappingSession) IgnoredNames() []string {
	return m.namesOf(Ignored)
}

// Active returns the name → seat map of assigned names. It is exactly the
// mapping submitted on Confirm.
func (m *MappingSession) Active() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]int64{}
	for name, a := range m.assignments {
		if a.Kind == Assigned {
			out[name] = a.PuestoID
		}
	}
	return out
}

// Puestos returns every seat of the venue known to the analysis.
func (m *MappingSession) Puestos() []dto.PuestoDisponible {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]dto.PuestoDisponible(nil), m.puestos...)
}

// AvailableSeats returns the seats no name is assigned to.
func (m *MappingSession) AvailableSeats() []dto.PuestoDisponible {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]dto.PuestoDisponible, 0, len(m.puestos))
	for _, p := range m.puestos {
		if _, taken := m.owner(p.ID); !taken {
			out = append(out, p)
		}
	}
	return out
}

// Cancel discards the review and returns to idle.
func (m *MappingSession) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == MappingSubmitting || m.state == MappingAnalyzing {
		return
	}
	m.reset()
	m.lastErr = nil
}

// Confirm submits the active mapping through the analyzed source. On
// success the session is cleared and the record reloaded; on failure the
// review is kept as it was so the operator can retry. A reload that fails
// after a stored import returns the response with ErrReloadAfterImport.
func (m *MappingSession) Confirm(ctx context.Context) (*dto.ImportarExcelResponse, error) {
	m.mu.Lock()
	if m.state != MappingReviewing {
		state := m.state
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, state)
	}
	m.state = MappingSubmitting
	src := m.src
	req := dto.ImportarExcelRequest{Mappings: map[string]int64{}, Ignored: []string{}}
	for _, name := range m.names {
		switch a := m.assignments[name]; a.Kind {
		case Assigned:
			req.Mappings[name] = a.PuestoID
		case Ignored:
			req.Ignored = append(req.Ignored, name)
		}
	}
	m.mu.Unlock()

	var (
		resp *dto.ImportarExcelResponse
		err  error
	)
	if src.ficheroID != 0 {
		resp, err = m.api.ImportFichero(ctx, m.recaudacionID, src.ficheroID, req)
	} else {
		resp, err = m.api.ImportExcel(ctx, m.recaudacionID, src.filename, src.content, req)
	}

	m.mu.Lock()
	if err != nil {
		m.state = MappingReviewing
		m.lastErr = err
		m.mu.Unlock()
		log.Error().Int64("recaudacion_id", m.recaudacionID).Err(err).Msg("import failed, review kept")
		return nil, fmt.Errorf("%w: %w", ErrImportFailure, err)
	}
	m.reset()
	m.lastErr = nil
	m.mu.Unlock()

	log.Info().Int64("recaudacion_id", m.recaudacionID).Int("mapeados", len(req.Mappings)).Msg("import done")
	if m.reloader != nil {
		if err := m.reloader.Reload(ctx); err != nil {
			return resp, fmt.Errorf("%w: %w", ErrReloadAfterImport, err)
		}
	}
	return resp, nil
}

func (m *MappingSession) reviewable(name string) error {
	if m.state != MappingReviewing {
		return fmt.Errorf("%w: %s", ErrInvalidState, m.state)
	}
	if _, ok := m.assignments[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return nil
}

func (m *MappingSession) knownSeat(id int64) bool {
	for _, p := range m.puestos {
		if p.ID == id {
			return true
		}
	}
	return false
}

// owner returns the name assigned to a seat. Callers hold m.mu.
func (m *MappingSession) owner(puestoID int64) (string, bool) {
	for _, name := range m.names {
		if a := m.assignments[name]; a.Kind == Assigned && a.PuestoID == puestoID {
			return name, true
		}
	}
	return "", false
}

func (m *MappingSession) namesOf(kind AssignmentKind) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []string{}
	for _, name := range m.names {
		if m.assignments[name].Kind == kind {
			out = append(out, name)
		}
	}
	return out
}

func (m *MappingSession) reset() {
	m.state = MappingIdle
	m.src = source{}
	m.names = nil
	m.assignments = map[string]Assignment{}
	m.puestos = nil
}

// SortedPuestos orders seats by name then number, for display.
func SortedPuestos(ps []dto.PuestoDisponible) []dto.PuestoDisponible {
	out := append([]dto.PuestoDisponible(nil), ps...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Nombre != out[j].Nombre {
			return out[i].Nombre < out[j].Nombre
		}
		return out[i].NumeroPuesto < out[j].NumeroPuesto
	})
	return out
}
