package service

import (
	"context"
	"slices"

	"github.com/pozi78/Casino-Management-System-sub000/internal/model"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"
)

// Acceso is what the authenticated user may do per venue. Admins see and
// edit every venue.
type Acceso struct {
	UsuarioID int64
	Admin     bool
	ver       map[int64]bool
	editar    map[int64]bool
}

// AccesoTotal grants every venue. Used by tools running outside a request.
func AccesoTotal() Acceso { return Acceso{Admin: true} }

func AccesoDe(u *model.Usuario) Acceso {
	a := Acceso{
		UsuarioID: u.ID,
		Admin:     u.EsAdmin(),
		ver:       map[int64]bool{},
		editar:    map[int64]bool{},
	}
	for _, s := range u.SalonesAsignados {
		if s.PuedeVer || s.VerRecaudaciones {
			a.ver[s.SalonID] = true
		}
		if s.PuedeEditar || s.EditarRecaudaciones {
			a.ver[s.SalonID] = true
			a.editar[s.SalonID] = true
		}
	}
	return a
}

func (a Acceso) PuedeVer(salonID int64) bool { return a.Admin || a.ver[salonID] }

func (a Acceso) PuedeEditar(salonID int64) bool { return a.Admin || a.editar[salonID] }

// Visibles lists the venues the user can read, nil meaning all of them.
func (a Acceso) Visibles() []int64 {
	if a.Admin {
		return nil
	}
	out := make([]int64, 0, len(a.ver))
	for id := range a.ver {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// recaudacionAccesible fetches a record and checks read (or edit) access to
// its venue. A record outside the grid is reported as missing.
func recaudacionAccesible(ctx context.Context, repo repository.RecaudacionRepository, acc Acceso, id int64, editar bool) (*model.Recaudacion, error) {
	rec, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, comoNoEncontrado(err, "Recaudacion no encontrada")
	}
	if !acc.PuedeVer(rec.SalonID) {
		return nil, noEncontrado("Recaudacion no encontrada")
	}
	if editar && !acc.PuedeEditar(rec.SalonID) {
		return nil, sinPermiso()
	}
	return rec, nil
}
