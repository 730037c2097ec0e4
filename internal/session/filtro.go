package session

import (
	"sort"
	"sync"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
)

// Filtro is the venue selection applied to lists. Every available venue
// starts selected; an empty selection shows nothing.
type Filtro struct {
	mu          sync.RWMutex
	disponibles []dto.SalonResumen
	seleccion   map[int64]bool
}

func NewFiltro(disponibles []dto.SalonResumen) *Filtro {
	f := &Filtro{disponibles: disponibles}
	f.SelectAll()
	return f
}

func (f *Filtro) Disponibles() []dto.SalonResumen {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]dto.SalonResumen(nil), f.disponibles...)
}

// Toggle flips one venue. Ids that are not available are ignored.
func (f *Filtro) Toggle(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.disponible(id) {
		return
	}
	if f.seleccion[id] {
		delete(f.seleccion, id)
	} else {
		f.seleccion[id] = true
	}
}

func (f *Filtro) SelectAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seleccion = make(map[int64]bool, len(f.disponibles))
	for _, s := range f.disponibles {
		f.seleccion[s.ID] = true
	}
}

func (f *Filtro) DeselectAll() {
	f.mu.Lock()
	f.seleccion = map[int64]bool{}
	f.mu.Unlock()
}

// IsFiltered reports whether some available venue is left out.
func (f *Filtro) IsFiltered() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.disponibles) > 0 && len(f.seleccion) < len(f.disponibles)
}

func (f *Filtro) IsSelected(id int64) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.seleccion[id]
}

// Selected returns the selected ids in ascending order.
func (f *Filtro) Selected() []int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := make([]int64, 0, len(f.seleccion))
	for id := range f.seleccion {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *Filtro) disponible(id int64) bool {
	for _, s := range f.disponibles {
		if s.ID == id {
			return true
		}
	}
	return false
}
