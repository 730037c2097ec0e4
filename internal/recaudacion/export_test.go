package recaudacion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pozi78/Casino-Management-System-sub000/internal/apiclient"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFilename(t *testing.T) {
	cases := []struct {
		name string
		cd   string
		want string
	}{
		{"vacia", "", "recaudacion_10.xlsx"},
		{"solo espacios", "   ", "recaudacion_10.xlsx"},
		{"malformada", `attachment; filename="sin cerrar`, "recaudacion_10.xlsx"},
		{"sin nombre", "attachment", "recaudacion_10.xlsx"},
		{"filename", `attachment; filename="Recaudacion_Norte_2024-01-01.xlsx"`, "Recaudacion_Norte_2024-01-01.xlsx"},
		{"filename estrella", `attachment; filename*=UTF-8''Recaudaci%C3%B3n_Sal%C3%B3n.xlsx`, "Recaudación_Salón.xlsx"},
		{"ruta", `attachment; filename="../../etc/passwd"`, "passwd"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExportFilename(tc.cd, 10))
		})
	}
}

func TestExport_SinCabeceraUsaNombrePorDefecto(t *testing.T) {
	s, api := loadedStore(t)
	api.EXPECT().Export(gomock.Any(), int64(10)).Return(&apiclient.Download{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Body:        []byte("PK"),
	}, nil)

	name, body, err := s.Export(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.Contains(name, "10"))
	assert.Equal(t, "recaudacion_10.xlsx", name)
	assert.Equal(t, []byte("PK"), body)
}

func TestExport_Errores(t *testing.T) {
	s := NewStore(nil)
	_, _, err := s.Export(context.Background())
	assert.ErrorIs(t, err, ErrNotLoaded)

	s2, api := loadedStore(t)
	api.EXPECT().Export(gomock.Any(), int64(10)).Return(nil, apiclient.ErrTransient)
	_, _, err = s2.Export(context.Background())
	assert.True(t, errors.Is(err, apiclient.ErrTransient))
}

func TestDeleteAttachment(t *testing.T) {
	t.Run("rechazada no llama al servidor", func(t *testing.T) {
		s, _ := loadedStore(t)
		var prompt string
		err := s.DeleteAttachment(context.Background(), 77, ConfirmFunc(func(p string) bool {
			prompt = p
			return false
		}))
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Contains(t, prompt, "acta.pdf")
	})

	t.Run("confirmada borra y recarga", func(t *testing.T) {
		s, api := loadedStore(t)
		gomock.InOrder(
			api.EXPECT().DeleteFichero(gomock.Any(), int64(10), int64(77)).Return(nil),
			api.EXPECT().GetRecaudacion(gomock.Any(), int64(10)).Return(recaudacionDemo(), nil),
		)
		err := s.DeleteAttachment(context.Background(), 77, ConfirmFunc(func(string) bool { return true }))
		require.NoError(t, err)
	})

	t.Run("sin confirmador", func(t *testing.T) {
		s, _ := loadedStore(t)
		assert.ErrorIs(t, s.DeleteAttachment(context.Background(), 77, nil), ErrCancelled)
	})
}

func TestUploadAttachment_Recarga(t *testing.T) {
	s, api := loadedStore(t)
	gomock.InOrder(
		api.EXPECT().UploadFichero(gomock.Any(), int64(10), "foto.jpg", gomock.Any()).
			Return(&dto.FicheroResponse{ID: 78, Filename: "foto.jpg"}, nil),
		api.EXPECT().GetRecaudacion(gomock.Any(), int64(10)).Return(recaudacionDemo(), nil),
	)
	f, err := s.UploadAttachment(context.Background(), "foto.jpg", strings.NewReader("jpg"))
	require.NoError(t, err)
	assert.Equal(t, int64(78), f.ID)
}

func TestAttachmentTicketURL(t *testing.T) {
	s, api := loadedStore(t)
	api.EXPECT().FicheroTicket(gomock.Any(), int64(10), int64(77)).Return(&dto.TicketResponse{Ticket: "abc", ExpiresIn: 60}, nil)
	api.EXPECT().TicketURL(int64(10), int64(77), "abc").Return("http://x/api/v1/recaudaciones/10/files/77/content?ticket=abc")

	url, ttl, err := s.AttachmentTicketURL(context.Background(), 77)
	require.NoError(t, err)
	assert.Contains(t, url, "ticket=abc")
	assert.Equal(t, float64(60), ttl.Seconds())
}
