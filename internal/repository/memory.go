package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/model"

	"gorm.io/gorm"
)

// Memoria keeps every table in process memory. It backs the server when no
// database is configured and serves as the repository fake in tests. Missing
// rows are reported with gorm.ErrRecordNotFound, like the GORM repositories.
type Memoria struct {
	mu sync.RWMutex
	// seq holds the last id issued per table.
	seq map[string]int64

	recaudaciones map[int64]model.Recaudacion
	detalles      map[int64]model.RecaudacionMaquina
	ficheros      map[int64]model.RecaudacionFichero
	salones       map[int64]model.Salon
	tipos         map[int64]model.TipoMaquina
	maquinas      map[int64]model.Maquina
	puestos       map[int64]model.Puesto
	excelMap      []model.MaquinaExcelMap
	usuarios      map[int64]model.Usuario
	grid          []model.UsuarioSalon
}

var ErrDuplicado = errors.New("registro duplicado")

func NewMemoria() *Memoria {
	return &Memoria{
		seq:           map[string]int64{},
		recaudaciones: map[int64]model.Recaudacion{},
		detalles:      map[int64]model.RecaudacionMaquina{},
		ficheros:      map[int64]model.RecaudacionFichero{},
		salones:       map[int64]model.Salon{},
		tipos:         map[int64]model.TipoMaquina{},
		maquinas:      map[int64]model.Maquina{},
		puestos:       map[int64]model.Puesto{},
		usuarios:      map[int64]model.Usuario{},
	}
}

func (m *Memoria) Recaudaciones() RecaudacionRepository { return memRecaudaciones{m} }
func (m *Memoria) Ficheros() FicheroRepository          { return memFicheros{m} }
func (m *Memoria) Catalogo() CatalogoRepository         { return memCatalogo{m} }
func (m *Memoria) Usuarios() UsuarioRepository          { return memUsuarios{m} }

func (m *Memoria) next(tabla string) int64 {
	m.seq[tabla]++
	return m.seq[tabla]
}

// ── Recaudaciones ────────────────────────────────────────────────────────────

type memRecaudaciones struct{ m *Memoria }

func (r memRecaudaciones) List(_ context.Context, f RecaudacionFilter) ([]model.Recaudacion, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	want := conjunto(f.SalonIDs)
	out := []model.Recaudacion{}
	for _, rec := range r.m.recaudaciones {
		if want != nil && !want[rec.SalonID] {
			continue
		}
		rec.Salon = r.m.salon(rec.SalonID)
		rec.Detalles = r.m.detallesDe(rec.ID, false)
		out = append(out, rec)
	}
	sortRecientes(out)
	return pagina(out, f.Skip, f.Limit), nil
}

func (r memRecaudaciones) LastFechaFin(_ context.Context, salonID int64) (*time.Time, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var propias []model.Recaudacion
	for _, rec := range r.m.recaudaciones {
		if rec.SalonID == salonID {
			propias = append(propias, rec)
		}
	}
	if len(propias) == 0 {
		return nil, nil
	}
	sortRecientes(propias)
	fin := propias[0].FechaFin
	return &fin, nil
}

func (r memRecaudaciones) FindByID(_ context.Context, id int64) (*model.Recaudacion, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	rec, ok := r.m.recaudaciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	rec.Salon = r.m.salon(rec.SalonID)
	rec.Detalles = r.m.detallesDe(id, true)
	rec.Ficheros = []model.RecaudacionFichero{}
	for _, f := range r.m.ficheros {
		if f.RecaudacionID == id {
			f.Contenido = nil
			rec.Ficheros = append(rec.Ficheros, f)
		}
	}
	sort.Slice(rec.Ficheros, func(i, j int) bool { return rec.Ficheros[i].ID < rec.Ficheros[j].ID })
	return &rec, nil
}

func (r memRecaudaciones) Create(_ context.Context, rec *model.Recaudacion) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	now := time.Now()
	rec.ID = r.m.next("recaudaciones")
	rec.CreatedAt, rec.UpdatedAt = now, now
	for i := range rec.Detalles {
		d := &rec.Detalles[i]
		d.ID = r.m.next("recaudacion_maquinas")
		d.RecaudacionID = rec.ID
		r.m.detalles[d.ID] = soloColumnasDetalle(*d)
	}
	r.m.recaudaciones[rec.ID] = soloCabecera(*rec)
	return nil
}

func (r memRecaudaciones) Update(_ context.Context, rec *model.Recaudacion) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.recaudaciones[rec.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	rec.UpdatedAt = time.Now()
	r.m.recaudaciones[rec.ID] = soloCabecera(*rec)
	return nil
}

func (r memRecaudaciones) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.recaudaciones[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.recaudaciones, id)
	for did, d := range r.m.detalles {
		if d.RecaudacionID == id {
			delete(r.m.detalles, did)
		}
	}
	for fid, f := range r.m.ficheros {
		if f.RecaudacionID == id {
			delete(r.m.ficheros, fid)
		}
	}
	return nil
}

func (r memRecaudaciones) FindDetalle(_ context.Context, id int64) (*model.RecaudacionMaquina, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	d, ok := r.m.detalles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.m.adjuntarRelaciones(&d)
	return &d, nil
}

func (r memRecaudaciones) UpdateDetalle(_ context.Context, d *model.RecaudacionMaquina) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.detalles[d.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.detalles[d.ID] = soloColumnasDetalle(*d)
	return nil
}

func (r memRecaudaciones) GuardarImportacion(_ context.Context, recaudacionID int64, filename string, detalles []model.RecaudacionMaquina, mapas []model.MaquinaExcelMap) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rec, ok := r.m.recaudaciones[recaudacionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range detalles {
		d := &detalles[i]
		d.RecaudacionID = recaudacionID
		if d.ID == 0 {
			d.ID = r.m.next("recaudacion_maquinas")
		}
		r.m.detalles[d.ID] = soloColumnasDetalle(*d)
	}
	for _, mp := range mapas {
		r.m.upsertExcelMap(mp)
	}
	rec.Origen = "importacion"
	rec.ReferenciaFichero = filename
	rec.UpdatedAt = time.Now()
	r.m.recaudaciones[recaudacionID] = rec
	return nil
}

// ── Ficheros ─────────────────────────────────────────────────────────────────

type memFicheros struct{ m *Memoria }

func (r memFicheros) Create(_ context.Context, f *model.RecaudacionFichero) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.recaudaciones[f.RecaudacionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.ID = r.m.next("recaudacion_ficheros")
	f.CreatedAt = time.Now()
	cp := *f
	cp.Contenido = append([]byte(nil), f.Contenido...)
	r.m.ficheros[f.ID] = cp
	return nil
}

func (r memFicheros) Find(_ context.Context, recaudacionID, ficheroID int64) (*model.RecaudacionFichero, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	f, ok := r.m.ficheros[ficheroID]
	if !ok || f.RecaudacionID != recaudacionID {
		return nil, gorm.ErrRecordNotFound
	}
	f.Contenido = append([]byte(nil), f.Contenido...)
	return &f, nil
}

func (r memFicheros) Delete(_ context.Context, recaudacionID, ficheroID int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.ficheros[ficheroID]
	if !ok || f.RecaudacionID != recaudacionID {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.ficheros, ficheroID)
	return nil
}

// ── Catalogo ─────────────────────────────────────────────────────────────────

type memCatalogo struct{ m *Memoria }

func (r memCatalogo) CreateSalon(_ context.Context, s *model.Salon) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s.ID = r.m.next("salones")
	s.CreatedAt, s.UpdatedAt = time.Now(), time.Now()
	r.m.salones[s.ID] = *s
	return nil
}

func (r memCatalogo) FindSalon(_ context.Context, id int64) (*model.Salon, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	s := r.m.salon(id)
	if s == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r memCatalogo) ListSalones(_ context.Context, ids []int64, skip, limit int) ([]model.Salon, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	want := conjunto(ids)
	out := []model.Salon{}
	for _, s := range r.m.salones {
		if want == nil || want[s.ID] {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Nombre != out[j].Nombre {
			return out[i].Nombre < out[j].Nombre
		}
		return out[i].ID < out[j].ID
	})
	return pagina(out, skip, limit), nil
}

func (r memCatalogo) UpdateSalon(_ context.Context, s *model.Salon) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.salones[s.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.UpdatedAt = time.Now()
	r.m.salones[s.ID] = *s
	return nil
}

func (r memCatalogo) CreateTipoMaquina(_ context.Context, t *model.TipoMaquina) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t.ID = r.m.next("tipos_maquina")
	r.m.tipos[t.ID] = *t
	return nil
}

func (r memCatalogo) FindTipoMaquina(_ context.Context, id int64) (*model.TipoMaquina, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	t, ok := r.m.tipos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r memCatalogo) ListTiposMaquina(_ context.Context, skip, limit int) ([]model.TipoMaquina, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []model.TipoMaquina{}
	for _, t := range r.m.tipos {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Nombre != out[j].Nombre {
			return out[i].Nombre < out[j].Nombre
		}
		return out[i].ID < out[j].ID
	})
	return pagina(out, skip, limit), nil
}

func (r memCatalogo) CreateMaquina(_ context.Context, mq *model.Maquina) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	mq.ID = r.m.next("maquinas")
	mq.CreatedAt = time.Now()
	for i := range mq.Puestos {
		p := &mq.Puestos[i]
		p.ID = r.m.next("puestos")
		p.MaquinaID = mq.ID
		r.m.puestos[p.ID] = *p
	}
	cp := *mq
	cp.Puestos, cp.TipoMaquina = nil, nil
	r.m.maquinas[mq.ID] = cp
	return nil
}

func (r memCatalogo) FindMaquina(_ context.Context, id int64) (*model.Maquina, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	mq, ok := r.m.maquinas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.m.completarMaquina(&mq, false)
	return &mq, nil
}

func (r memCatalogo) ListMaquinas(_ context.Context, f MaquinaFilter) ([]model.Maquina, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	want := conjunto(f.SalonIDs)
	out := []model.Maquina{}
	for _, mq := range r.m.maquinas {
		if want != nil && !want[mq.SalonID] {
			continue
		}
		r.m.completarMaquina(&mq, false)
		out = append(out, mq)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Nombre != out[j].Nombre {
			return out[i].Nombre < out[j].Nombre
		}
		return out[i].ID < out[j].ID
	})
	return pagina(out, f.Skip, f.Limit), nil
}

func (r memCatalogo) UpdateMaquina(_ context.Context, mq *model.Maquina) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.maquinas[mq.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.TipoMaquinaID = mq.TipoMaquinaID
	cur.Nombre = mq.Nombre
	cur.NumeroSerie = mq.NumeroSerie
	cur.TasaSemanalOverride = mq.TasaSemanalOverride
	cur.Activo = mq.Activo
	r.m.maquinas[mq.ID] = cur
	return nil
}

func (r memCatalogo) ListMaquinasActivas(_ context.Context, salonID int64) ([]model.Maquina, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []model.Maquina{}
	for _, mq := range r.m.maquinas {
		if mq.SalonID != salonID || !mq.Activo {
			continue
		}
		r.m.completarMaquina(&mq, true)
		out = append(out, mq)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Nombre != out[j].Nombre {
			return out[i].Nombre < out[j].Nombre
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memCatalogo) ListExcelMap(_ context.Context, salonID int64) ([]model.MaquinaExcelMap, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []model.MaquinaExcelMap{}
	for _, mp := range r.m.excelMap {
		if mp.SalonID == salonID {
			out = append(out, mp)
		}
	}
	return out, nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

type memUsuarios struct{ m *Memoria }

func (r memUsuarios) Create(_ context.Context, u *model.Usuario) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, x := range r.m.usuarios {
		if x.Username == u.Username {
			return ErrDuplicado
		}
	}
	u.ID = r.m.next("usuarios")
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	cp.SalonesAsignados = nil
	r.m.usuarios[u.ID] = cp
	return nil
}

func (r memUsuarios) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, u := range r.m.usuarios {
		if u.Username == username || (u.Email != "" && strings.EqualFold(u.Email, username)) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memUsuarios) FindByID(_ context.Context, id int64) (*model.Usuario, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, us := range r.m.grid {
		if us.UsuarioID == id {
			us.Salon = r.m.salon(us.SalonID)
			u.SalonesAsignados = append(u.SalonesAsignados, us)
		}
	}
	return &u, nil
}

func (r memUsuarios) List(_ context.Context, skip, limit int) ([]model.Usuario, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []model.Usuario{}
	for _, u := range r.m.usuarios {
		for _, us := range r.m.grid {
			if us.UsuarioID == u.ID {
				us.Salon = r.m.salon(us.SalonID)
				u.SalonesAsignados = append(u.SalonesAsignados, us)
			}
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return pagina(out, skip, limit), nil
}

func (r memUsuarios) AsignarSalon(_ context.Context, us *model.UsuarioSalon) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *us
	cp.Salon = nil
	for i, x := range r.m.grid {
		if x.UsuarioID == us.UsuarioID && x.SalonID == us.SalonID {
			r.m.grid[i] = cp
			return nil
		}
	}
	r.m.grid = append(r.m.grid, cp)
	return nil
}

// ── helpers (callers hold m.mu) ──────────────────────────────────────────────

func (m *Memoria) salon(id int64) *model.Salon {
	s, ok := m.salones[id]
	if !ok {
		return nil
	}
	return &s
}

// completarMaquina attaches the type and seats of mq, only active seats
// when soloActivos is set.
func (m *Memoria) completarMaquina(mq *model.Maquina, soloActivos bool) {
	if t, ok := m.tipos[mq.TipoMaquinaID]; ok {
		mq.TipoMaquina = &t
	}
	for _, p := range m.puestos {
		if p.MaquinaID == mq.ID && (p.Activo || !soloActivos) {
			mq.Puestos = append(mq.Puestos, p)
		}
	}
	sort.Slice(mq.Puestos, func(i, j int) bool { return mq.Puestos[i].NumeroPuesto < mq.Puestos[j].NumeroPuesto })
}

func (m *Memoria) detallesDe(recaudacionID int64, relaciones bool) []model.RecaudacionMaquina {
	out := []model.RecaudacionMaquina{}
	for _, d := range m.detalles {
		if d.RecaudacionID != recaudacionID {
			continue
		}
		if relaciones {
			m.adjuntarRelaciones(&d)
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memoria) adjuntarRelaciones(d *model.RecaudacionMaquina) {
	if mq, ok := m.maquinas[d.MaquinaID]; ok {
		if t, ok := m.tipos[mq.TipoMaquinaID]; ok {
			mq.TipoMaquina = &t
		}
		d.Maquina = &mq
	}
	if d.PuestoID != nil {
		if p, ok := m.puestos[*d.PuestoID]; ok {
			d.Puesto = &p
		}
	}
}

func (m *Memoria) upsertExcelMap(mp model.MaquinaExcelMap) {
	mp.UpdatedAt = time.Now()
	for i, x := range m.excelMap {
		if x.SalonID == mp.SalonID && x.ExcelName == mp.ExcelName {
			mp.ID = x.ID
			m.excelMap[i] = mp
			return
		}
	}
	mp.ID = m.next("maquina_excel_map")
	m.excelMap = append(m.excelMap, mp)
}

func soloCabecera(r model.Recaudacion) model.Recaudacion {
	r.Salon, r.Detalles, r.Ficheros = nil, nil, nil
	return r
}

func soloColumnasDetalle(d model.RecaudacionMaquina) model.RecaudacionMaquina {
	d.Maquina, d.Puesto = nil, nil
	return d
}

func sortRecientes(rs []model.Recaudacion) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].FechaInicio.Equal(rs[j].FechaInicio) {
			return rs[i].FechaInicio.After(rs[j].FechaInicio)
		}
		return rs[i].ID > rs[j].ID
	})
}

func conjunto(ids []int64) map[int64]bool {
	if ids == nil {
		return nil
	}
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func pagina[T any](rows []T, skip, limit int) []T {
	if skip >= len(rows) {
		return rows[:0]
	}
	rows = rows[skip:]
	if limit := limite(limit); len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
