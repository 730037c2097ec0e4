package service

import (
	"context"
	"fmt"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"

	"github.com/shopspring/decimal"
)

// Demo holds the ids created by SembrarDemo.
type Demo struct {
	SalonID      int64
	AdminID      int64
	OperadorID   int64
	MaquinaIDs   map[string]int64
	PuestoIDs    map[string]int64 // "Ruleta#1", "Cirsa Mega#1", ...
	Credenciales map[string]string
}

// SembrarDemo creates one venue with three machines (a two-seat roulette and
// two single-seat slots), an admin and an operator who may edit that venue.
func SembrarDemo(ctx context.Context, auth AuthService, catalogo repository.CatalogoRepository, password string) (*Demo, error) {
	d := &Demo{
		MaquinaIDs:   map[string]int64{},
		PuestoIDs:    map[string]int64{},
		Credenciales: map[string]string{"admin": password, "operador": password},
	}

	salon := &model.Salon{Nombre: "Salón Central", Direccion: "Av. Principal 1", Activo: true}
	if err := catalogo.CreateSalon(ctx, salon); err != nil {
		return nil, fmt.Errorf("demo: salon: %w", err)
	}
	d.SalonID = salon.ID

	ruleta := &model.TipoMaquina{Nombre: "Ruleta electrónica", NombreCorto: "RUL", TasaSemanalBase: decimal.NewFromInt(150), TasaPorPuesto: true, Activo: true}
	slot := &model.TipoMaquina{Nombre: "Máquina B", NombreCorto: "B", TasaSemanalBase: decimal.NewFromInt(90), Activo: true}
	for _, t := range []*model.TipoMaquina{ruleta, slot} {
		if err := catalogo.CreateTipoMaquina(ctx, t); err != nil {
			return nil, fmt.Errorf("demo: tipo %s: %w", t.Nombre, err)
		}
	}

	for _, m := range []struct {
		nombre, serie string
		tipo          int64
		puestos       int
	}{
		{"Ruleta", "RU-001", ruleta.ID, 2},
		{"Cirsa Mega", "CM-114", slot.ID, 1},
		{"Bingo Max", "BM-207", slot.ID, 1},
	} {
		mq := &model.Maquina{SalonID: salon.ID, TipoMaquinaID: m.tipo, Nombre: m.nombre, NumeroSerie: m.serie, Activo: true}
		for n := 1; n <= m.puestos; n++ {
			mq.Puestos = append(mq.Puestos, model.Puesto{NumeroPuesto: n, Activo: true})
		}
		if err := catalogo.CreateMaquina(ctx, mq); err != nil {
			return nil, fmt.Errorf("demo: maquina %s: %w", m.nombre, err)
		}
		d.MaquinaIDs[m.nombre] = mq.ID
		for _, p := range mq.Puestos {
			d.PuestoIDs[fmt.Sprintf("%s#%d", m.nombre, p.NumeroPuesto)] = p.ID
		}
	}

	admin, err := auth.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "admin", Nombre: "Administrador", Email: "admin@example.com",
		Password: password, Roles: []string{model.RolAdmin},
	})
	if err != nil {
		return nil, fmt.Errorf("demo: admin: %w", err)
	}
	d.AdminID = admin.ID

	op, err := auth.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "operador", Nombre: "Operador de sala", Email: "operador@example.com",
		Password: password, Roles: []string{"RECAUDADOR"},
	})
	if err != nil {
		return nil, fmt.Errorf("demo: operador: %w", err)
	}
	d.OperadorID = op.ID
	err = auth.AsignarSalon(ctx, op.ID, dto.SalonAsignado{
		SalonID: salon.ID, PuedeVer: true, VerDashboard: true,
		VerRecaudaciones: true, EditarRecaudaciones: true,
	})
	if err != nil {
		return nil, fmt.Errorf("demo: permisos: %w", err)
	}
	return d, nil
}
