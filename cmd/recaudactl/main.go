// recaudactl is the operator console for collection records: log in, list
// and open records, edit cells, import spreadsheets, manage attachments and
// export the result.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/apiclient"
	"github.com/pozi78/Casino-Management-System-sub000/internal/config"
	"github.com/pozi78/Casino-Management-System-sub000/internal/recaudacion"
	"github.com/pozi78/Casino-Management-System-sub000/internal/session"
	"github.com/pozi78/Casino-Management-System-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type command struct {
	args  string
	descr string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":    {"<usuario> [-p clave]", "inicia sesión y guarda el token", cmdLogin},
	"logout":   {"", "cierra la sesión", cmdLogout},
	"whoami":   {"", "usuario, salones y caducidad del token", cmdWhoami},
	"salones":  {"", "lista los salones visibles", cmdSalones},
	"maquinas": {"[-salon id]", "lista máquinas y puestos", cmdMaquinas},
	"list":     {"[-salon id]...", "lista recaudaciones de los salones seleccionados", cmdList},
	"create":   {"-salon id [-inicio f] -fin f [-cierre f] [-etiqueta t]", "crea una recaudación", cmdCreate},
	"show":     {"<id>", "muestra filas y totales", cmdShow},
	"set":      {"<id> <fila>.<campo>=<valor>...", "edita celdas (guardado concurrente)", cmdSet},
	"global":   {"<id> <total_tasas|depositos|otros_conceptos> <valor|null>", "edita un importe global", cmdGlobal},
	"files":    {"<id>", "lista los adjuntos", cmdFiles},
	"upload":   {"<id> <ruta>", "adjunta un fichero", cmdUpload},
	"rm-file":  {"<id> <fichero> [-y]", "elimina un adjunto", cmdRmFile},
	"url":      {"<id> <fichero> [-ticket]", "enlace de descarga de un adjunto", cmdURL},
	"import":   {"<id> <ruta|#fichero> [-map nombre=puesto]... [-ignore nombre]... [-unassign puesto]... [-y]", "importa una hoja de recaudación", cmdImport},
	"export":   {"<id> [-o dir]", "descarga la hoja xlsx", cmdExport},
	"report":   {"<id> [-o fichero.pdf]", "genera el resumen en PDF", cmdReport},
	"delete":   {"<id> [-confirm BORRAR]", "elimina una recaudación", cmdDelete},
}

// app carries the shared client state of one invocation.
type app struct {
	cfg    *config.ClientConfig
	tokens *session.FileStore
	api    *apiclient.Client
	sess   *session.Session
	out    io.Writer
	in     *bufio.Reader
}

func newApp(cfg *config.ClientConfig) *app {
	tokens := session.NewFileStore(cfg.TokenFile)
	api := apiclient.New(cfg.APIURL, tokens, cfg.Timeout())
	return &app{
		cfg:    cfg,
		tokens: tokens,
		api:    api,
		sess:   session.New(api, tokens, cfg.WarnBefore()),
		out:    os.Stdout,
		in:     bufio.NewReader(os.Stdin),
	}
}

// store builds a record store; pool may be nil.
func (a *app) store(pool *worker.Dispatcher) *recaudacion.Store {
	opts := []recaudacion.Option{recaudacion.WithSaveTimeout(a.cfg.SaveTimeout())}
	if pool != nil {
		opts = append(opts, recaudacion.WithDispatcher(pool))
	}
	return recaudacion.NewStore(a.api, opts...)
}

// Confirm asks on the terminal; anything but s/si/y/yes is a no.
func (a *app) Confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [s/N] ", prompt)
	line, _ := a.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

func (a *app) ask(prompt string) string {
	fmt.Fprint(a.out, prompt)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// warnExpiry prints a notice when the token is about to expire.
func (a *app) warnExpiry() {
	if a.sess.ShouldWarn() {
		left, _ := a.sess.ExpiresIn()
		fmt.Fprintf(os.Stderr, "aviso: la sesión caduca en %s\n", left.Round(time.Second))
	}
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		if os.Args[1] != "help" && os.Args[1] != "-h" {
			fmt.Fprintf(os.Stderr, "orden desconocida %q\n\n", os.Args[1])
		}
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(cfg)
	if err := cmd.run(ctx, a, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", mensaje(err))
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "uso: recaudactl <orden> [argumentos]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		c := commands[n]
		fmt.Fprintf(w, "  %-8s %s\n           %s\n", n, c.args, c.descr)
	}
}

// mensaje turns an error into the text shown to the operator.
func mensaje(err error) string {
	var ve *recaudacion.ValidationError
	switch {
	case errors.Is(err, recaudacion.ErrReloadAfterImport):
		return "importación completada, pero no se pudo recargar la recaudación: " + apiclient.Message(err)
	case errors.Is(err, apiclient.ErrUnauthorized):
		return "la sesión no es válida o ha caducado; ejecute 'recaudactl login'"
	case errors.Is(err, session.ErrNoSession), errors.Is(err, apiclient.ErrNoToken):
		return "no hay sesión iniciada; ejecute 'recaudactl login'"
	case errors.Is(err, apiclient.ErrForbidden):
		return "no tiene permisos para esta operación"
	case errors.Is(err, apiclient.ErrNotFound):
		return "no encontrado: " + apiclient.Message(err)
	case errors.Is(err, apiclient.ErrTransient):
		return "el servidor no responde, inténtelo de nuevo: " + apiclient.Message(err)
	case errors.Is(err, recaudacion.ErrConfirmation):
		return fmt.Sprintf("hay que escribir %s para confirmar", recaudacion.DeletePhrase)
	case errors.Is(err, recaudacion.ErrCancelled):
		return "operación cancelada"
	case errors.As(err, &ve):
		return ve.Error()
	}
	return apiclient.Message(err)
}
