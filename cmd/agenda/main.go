// Command agenda es el cliente de terminal de la Agenda API.
//
//	agenda [--api URL] [--tz ZONA] <comando> [argumentos]
//	agenda                       # sin comando abre la consola interactiva
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jhoicas/agenda-api/internal/application/console"
	"github.com/jhoicas/agenda-api/pkg/apiclient"
	"github.com/jhoicas/agenda-api/pkg/config"
	"github.com/jhoicas/agenda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	global := pflag.NewFlagSet("agenda", pflag.ContinueOnError)
	global.SetInterspersed(false)
	apiURL := global.String("api", cfg.Agenda.APIBaseURL, "URL base de la API (AGENDA_API_URL)")
	tz := global.String("tz", cfg.App.Timezone, "zona horaria para mostrar y cargar fechas (APP_TIMEZONE)")
	if err := global.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg.App.Timezone = *tz
	loc, err := cfg.App.Location()
	if err != nil {
		fmt.Fprintln(os.Stderr, "zona horaria desconocida:", *tz)
		os.Exit(2)
	}

	log := logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel, Out: os.Stderr}).Component("agenda")
	client := apiclient.New(*apiURL, apiclient.WithObserver(func(c apiclient.Call) {
		log.Debug().Str("method", c.Method).Str("path", c.Path).Int("status", c.Status).
			Dur("latency", c.Duration).AnErr("error", c.Err).Msg("llamada a la API")
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := bufio.NewScanner(os.Stdin)
	app := &cli{
		session: console.NewSession(client, console.NewEventLog(log)),
		loc:     loc,
		out:     os.Stdout,
		in:      in,
	}
	app.session.Log().Infof("Aplicación iniciada.")

	if global.NArg() > 0 {
		if err := app.run(ctx, global.Args()); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintln(app.out, "Agenda: escriba 'help' para ver los comandos, 'exit' para salir.")
	if err := app.session.Load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	for {
		fmt.Fprint(app.out, "> ")
		if !in.Scan() {
			return
		}
		args := splitArgs(in.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return
		}
		if err := app.run(ctx, args); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}

// splitArgs separa por espacios respetando comillas dobles y simples.
func splitArgs(line string) []string {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inArg = r, true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args
}
