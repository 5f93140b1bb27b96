package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/jhoicas/agenda-api/internal/application/console"
	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
)

type cli struct {
	session *console.Session
	loc     *time.Location
	out     io.Writer
	in      *bufio.Scanner
}

const usage = `Comandos:
  clients [término]                 lista clientes (filtra por nombre, email, ciudad, teléfono o CPF)
  visits                            lista la agenda (fecha descendente)
  client-show ID                    detalle del cliente y sus visitas
  client-add --name N [opciones]    crea un cliente
  client-edit ID [opciones]         modifica un cliente
  client-rm ID [--yes]              elimina un cliente y sus visitas
  visit-add [--client ID] --subject S [--date AAAA-MM-DDTHH:MM] [--status E]
  visit-edit ID [opciones]          modifica una visita
  visit-rm ID [--yes]               elimina una visita
  log [clear|report]                muestra, limpia o reporta el log de eventos
Opciones de cliente: --name --phone --email --cpf --street --number --complement
  --neighborhood --city --state --zip`

func (a *cli) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	case "log":
		return a.logCmd(rest)
	}

	if err := a.session.Load(ctx); err != nil {
		return err
	}
	switch cmd {
	case "clients":
		a.session.Log().Infof("UI: búsqueda de cliente por término: '%s'.", strings.Join(rest, " "))
		a.printClients(console.FilterClients(a.session.Cache().Clients(), strings.Join(rest, " ")))
		return nil
	case "visits":
		a.printVisits(a.session.Cache().Visits())
		return nil
	case "client-show":
		return a.clientShow(rest)
	case "client-add":
		return a.clientSave(ctx, 0, rest)
	case "client-edit":
		id, rest, err := takeID(rest)
		if err != nil {
			return err
		}
		return a.clientSave(ctx, id, rest)
	case "client-rm":
		return a.remove(ctx, rest, a.session.DeleteClient)
	case "visit-add":
		return a.visitSave(ctx, 0, rest)
	case "visit-edit":
		id, rest, err := takeID(rest)
		if err != nil {
			return err
		}
		return a.visitSave(ctx, id, rest)
	case "visit-rm":
		return a.remove(ctx, rest, a.session.DeleteVisit)
	}
	return fmt.Errorf("comando desconocido %q (use help)", cmd)
}

func takeID(args []string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, errors.New("falta el ID")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, nil, fmt.Errorf("ID inválido %q", args[0])
	}
	return id, args[1:], nil
}

func (a *cli) clientShow(args []string) error {
	id, _, err := takeID(args)
	if err != nil {
		return err
	}
	c, ok := a.session.Cache().Client(id)
	if !ok {
		return console.ErrUnknownID
	}
	a.session.Log().Infof("Cliente '%s' seleccionado para ver detalles.", c.Name)
	fmt.Fprintf(a.out, "#%d %s\n", c.ID, c.Name)
	fmt.Fprintf(a.out, "  Teléfono: %s\n  Email:    %s\n  CPF:      %s\n", deref(c.Phone), deref(c.Email), deref(c.CPF))
	if c.Address != nil {
		ad := c.Address
		fmt.Fprintf(a.out, "  Dirección: %s %s %s, %s, %s-%s %s\n",
			ad.Street, ad.Number, ad.Complement, ad.Neighborhood, ad.City, ad.State, ad.Zip)
	} else {
		fmt.Fprintln(a.out, "  Dirección: no informada")
	}
	fmt.Fprintln(a.out)
	a.printVisits(console.VisitsOf(a.session.Cache().Visits(), id))
	return nil
}

func (a *cli) clientSave(ctx context.Context, id int64, args []string) error {
	form := console.NewClientForm(nil)
	if id != 0 {
		c, ok := a.session.Cache().Client(id)
		if !ok {
			return console.ErrUnknownID
		}
		form = console.NewClientForm(&c)
	}

	fs := pflag.NewFlagSet("client", pflag.ContinueOnError)
	fs.SetOutput(a.out)
	fields := map[string]*string{
		"name": &form.Name, "email": &form.Email, "cpf": &form.CPF,
		"street": &form.Address.Street, "number": &form.Address.Number,
		"complement": &form.Address.Complement, "neighborhood": &form.Address.Neighborhood,
		"city": &form.Address.City, "state": &form.Address.State, "zip": &form.Address.Zip,
	}
	for name, dst := range fields {
		fs.StringVar(dst, name, *dst, name)
	}
	phone := fs.String("phone", form.Phone, "teléfono")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.Changed("phone") {
		form.SetPhone(*phone)
	}

	if err := a.session.SaveClient(ctx, form); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Cliente guardado.")
	return nil
}

func (a *cli) visitSave(ctx context.Context, id int64, args []string) error {
	clients := a.session.Cache().Clients()
	var current *dto.VisitListItem
	if id != 0 {
		v, ok := a.session.Cache().Visit(id)
		if !ok {
			return console.ErrUnknownID
		}
		current = &v
	}

	fs := pflag.NewFlagSet("visit", pflag.ContinueOnError)
	fs.SetOutput(a.out)
	clientID := fs.Int64("client", 0, "ID del cliente")
	date := fs.String("date", "", "fecha AAAA-MM-DDTHH:MM")
	subject := fs.String("subject", "", "asunto")
	status := fs.String("status", "", "Agendada, Concluída o Cancelada")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := console.NewVisitForm(current, clients, *clientID, time.Now(), a.loc)
	if fs.Changed("client") {
		form.ClientID = *clientID
	}
	if fs.Changed("date") {
		form.Date = *date
	}
	if fs.Changed("subject") {
		form.Subject = *subject
	}
	if fs.Changed("status") {
		form.Status = entity.VisitStatus(*status)
	}

	if err := a.session.SaveVisit(ctx, form); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Visita guardada.")
	return nil
}

func (a *cli) remove(ctx context.Context, args []string, del func(context.Context, int64, console.Confirmer) error) error {
	id, rest, err := takeID(args)
	if err != nil {
		return err
	}
	fs := pflag.NewFlagSet("rm", pflag.ContinueOnError)
	yes := fs.BoolP("yes", "y", false, "no pedir confirmación")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	var confirm console.Confirmer
	if !*yes {
		confirm = a.confirm
	}
	if err := del(ctx, id, confirm); err != nil {
		if errors.Is(err, console.ErrCancelled) {
			fmt.Fprintln(a.out, "Cancelado.")
			return nil
		}
		return err
	}
	fmt.Fprintln(a.out, "Eliminado.")
	return nil
}

func (a *cli) confirm(title, message string) bool {
	fmt.Fprintf(a.out, "%s\n%s\n¿Confirmar? [s/N] ", title, message)
	if !a.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(a.in.Text()))
	return answer == "s" || answer == "si" || answer == "sí" || answer == "y" || answer == "yes"
}

func (a *cli) logCmd(args []string) error {
	l := a.session.Log()
	if len(args) > 0 {
		switch args[0] {
		case "clear":
			l.Clear()
			return nil
		case "report":
			text, err := l.Report()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, text)
			return nil
		}
		return fmt.Errorf("subcomando de log desconocido %q", args[0])
	}
	for _, e := range l.Entries() {
		fmt.Fprintln(a.out, e.String())
		if e.Details != "" {
			fmt.Fprintln(a.out, "    "+strings.ReplaceAll(e.Details, "\n", "\n    "))
		}
	}
	return nil
}

func (a *cli) printClients(clients []dto.ClientResponse) {
	if len(clients) == 0 {
		fmt.Fprintln(a.out, "Ningún cliente encontrado.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tTELÉFONO\tEMAIL\tCIUDAD")
	for _, c := range clients {
		city := ""
		if c.Address != nil {
			city = c.Address.City
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, deref(c.Phone), deref(c.Email), city)
	}
	_ = w.Flush()
}

func (a *cli) printVisits(visits []dto.VisitListItem) {
	if len(visits) == 0 {
		fmt.Fprintln(a.out, "Ninguna visita.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFECHA\tCLIENTE\tASUNTO\tESTADO")
	for _, v := range visits {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			v.ID, v.Date.In(a.loc).Format("02/01/2006 15:04"), v.ClientName, v.Subject, v.Status)
	}
	_ = w.Flush()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
