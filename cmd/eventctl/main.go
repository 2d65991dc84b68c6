// Command eventctl is a terminal client for the event platform API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/fatih/color"

	"eventplatform/config"
	"eventplatform/internal/client"
	"eventplatform/internal/client/views"
	"eventplatform/internal/domain"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	okColor    = color.New(color.FgGreen)
	errColor   = color.New(color.FgRed, color.Bold)
	dimColor   = color.New(color.Faint)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		errColor.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: config.ParseLevel(cfg.LogLevel)}))
	a, err := newApp(client.New(cfg.APIURL, nil), client.NewFileTokenStorage(cfg.TokenFile), logger, stdout, stderr)
	if err != nil {
		return err
	}
	return a.dispatch(ctx, args)
}

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

type app struct {
	api      *client.Client
	store    *client.AuthStore
	logger   *slog.Logger
	out      io.Writer
	errOut   io.Writer
	commands map[string]command
}

func newApp(api *client.Client, storage client.TokenStorage, logger *slog.Logger, out, errOut io.Writer) (*app, error) {
	store, err := client.NewAuthStore(api, storage, logger)
	if err != nil {
		return nil, fmt.Errorf("opening token storage: %w", err)
	}
	a := &app{api: api, store: store, logger: logger, out: out, errOut: errOut}
	a.commands = map[string]command{
		"register":  {"register -username NAME -email EMAIL -password PASSWORD", a.register},
		"login":     {"login -email EMAIL -password PASSWORD", a.login},
		"logout":    {"logout", a.logout},
		"whoami":    {"whoami", a.whoami},
		"home":      {"home", a.home},
		"list":      {"list [-category C] [-location L] [-page N]", a.list},
		"show":      {"show ID", a.show},
		"create":    {"create -title T -description D -date YYYY-MM-DD -time HH:MM -location L -category C [-image URL]", a.create},
		"update":    {"update [-title T] [-description D] [-date D] [-time T] [-location L] [-category C] [-image URL] ID", a.update},
		"delete":    {"delete ID", a.delete},
		"save":      {"save ID", a.save},
		"dashboard": {"dashboard", a.dashboard},
	}
	return a, nil
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		return flag.ErrHelp
	}
	cmd, ok := a.commands[args[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	err := cmd.run(ctx, args[1:])
	if errors.Is(err, views.ErrLoginRequired) {
		return errors.New("login required, run: eventctl login")
	}
	return err
}

func (a *app) usage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(a.errOut, "usage: eventctl <command> [flags]")
	for _, name := range names {
		fmt.Fprintf(a.errOut, "  eventctl %s\n", a.commands[name].usage)
	}
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.Usage = func() {
		fmt.Fprintf(a.errOut, "usage: eventctl %s\n", a.commands[name].usage)
		fs.PrintDefaults()
	}
	return fs
}

// closeOnCancel closes v when ctx is done.
func closeOnCancel(ctx context.Context, v interface{ Close() }) func() bool {
	return context.AfterFunc(ctx, v.Close)
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	var in client.RegisterInput
	fs.StringVar(&in.Username, "username", "", "username (3-30 characters)")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password (at least 6 characters)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.store.Register(ctx, in); err != nil {
		return errors.New(a.store.Snapshot().Error)
	}
	okColor.Fprintf(a.out, "Registered and logged in as %s\n", a.store.Snapshot().User.Username)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.store.Login(ctx, *email, *password); err != nil {
		return errors.New(a.store.Snapshot().Error)
	}
	okColor.Fprintf(a.out, "Logged in as %s\n", a.store.Snapshot().User.Username)
	return nil
}

func (a *app) logout(ctx context.Context, args []string) error {
	views.NewHeader(a.store).Logout()
	okColor.Fprintln(a.out, "Logged out")
	return nil
}

func (a *app) whoami(ctx context.Context, args []string) error {
	if !a.store.CheckAuth(ctx) {
		fmt.Fprintln(a.out, "Not logged in")
	} else {
		u := a.store.Snapshot().User
		titleColor.Fprintln(a.out, u.Username)
		fmt.Fprintf(a.out, "  id:     %s\n  email:  %s\n  saved:  %d events\n", u.ID, u.Email, len(u.SavedEvents))
	}
	labels := []string{}
	for _, item := range views.NewHeader(a.store).Items() {
		labels = append(labels, item.Label)
	}
	dimColor.Fprintf(a.out, "menu: %s\n", strings.Join(labels, " | "))
	return nil
}

func (a *app) home(ctx context.Context, args []string) error {
	h := views.NewHome(a.api, a.logger)
	defer closeOnCancel(ctx, h)()
	if err := h.Load(); err != nil {
		return err
	}
	st := h.State()
	cats := make([]string, len(st.Categories))
	for i, c := range st.Categories {
		cats[i] = string(c)
	}
	titleColor.Fprintln(a.out, "Categories")
	fmt.Fprintf(a.out, "  %s\n\n", strings.Join(cats, ", "))
	titleColor.Fprintln(a.out, "Upcoming Events")
	return a.printEvents(st.Upcoming)
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	category := fs.String("category", "", "exact category ("+strings.Join(domain.CategoryNames(), ", ")+")")
	location := fs.String("location", "", "location substring, case-insensitive")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q := views.Filters{Category: *category, Location: *location}.Query()
	l := views.NewList(a.api, q, a.logger)
	defer closeOnCancel(ctx, l)()
	l.SetPage(*page)
	if err := l.Load(); err != nil {
		return err
	}
	st := l.State()
	if err := a.printEvents(st.Events); err != nil {
		return err
	}
	dimColor.Fprintf(a.out, "page %d of %d (%d events)", st.Page, st.TotalPages, st.Total)
	if enc := l.Query().Encode(); enc != "" {
		dimColor.Fprintf(a.out, "  /events?%s", enc)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	id, err := a.idArg("show", args)
	if err != nil {
		return err
	}
	a.store.CheckAuth(ctx)
	d := views.NewDetail(a.api, a.store, id, a.logger)
	defer closeOnCancel(ctx, d)()
	if err := d.Load(); err != nil {
		return err
	}
	st := d.State()
	a.printEvent(st.Event)
	var flags []string
	if st.IsSaved {
		flags = append(flags, "saved")
	}
	if st.IsOwner {
		flags = append(flags, "yours")
	}
	if len(flags) > 0 {
		okColor.Fprintf(a.out, "  [%s]\n", strings.Join(flags, ", "))
	}
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := a.flagSet("create")
	var in client.EventInput
	fs.StringVar(&in.Title, "title", "", "title")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.StringVar(&in.Date, "date", "", "date, YYYY-MM-DD")
	fs.StringVar(&in.Time, "time", "", "time of day")
	fs.StringVar(&in.Location, "location", "", "location")
	fs.StringVar(&in.Category, "category", "", "category ("+strings.Join(domain.CategoryNames(), ", ")+")")
	fs.StringVar(&in.Image, "image", "", "image URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.store.CheckAuth(ctx) {
		return views.ErrLoginRequired
	}
	d := views.NewDashboard(a.api, a.store, a.logger)
	defer closeOnCancel(ctx, d)()
	ev, err := d.Create(in)
	if ev == nil {
		return err
	}
	okColor.Fprintf(a.out, "Created event %s\n", ev.ID)
	return err
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := a.flagSet("update")
	fields := map[string]*string{}
	for _, name := range []string{"title", "description", "date", "time", "location", "category", "image"} {
		fields[name] = fs.String(name, "", "new "+name)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("update needs exactly one event id")
	}
	var in client.EventUpdate
	fs.Visit(func(f *flag.Flag) {
		v := fields[f.Name]
		switch f.Name {
		case "title":
			in.Title = v
		case "description":
			in.Description = v
		case "date":
			in.Date = v
		case "time":
			in.Time = v
		case "location":
			in.Location = v
		case "category":
			in.Category = v
		case "image":
			in.Image = v
		}
	})
	if !a.store.CheckAuth(ctx) {
		return views.ErrLoginRequired
	}
	d := views.NewDetail(a.api, a.store, fs.Arg(0), a.logger)
	defer closeOnCancel(ctx, d)()
	if err := d.Edit(in); err != nil {
		return err
	}
	a.printEvent(d.State().Event)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	id, err := a.idArg("delete", args)
	if err != nil {
		return err
	}
	d := views.NewDetail(a.api, a.store, id, a.logger)
	defer closeOnCancel(ctx, d)()
	if err := d.Delete(); err != nil {
		return err
	}
	okColor.Fprintln(a.out, "Event deleted")
	return nil
}

func (a *app) save(ctx context.Context, args []string) error {
	id, err := a.idArg("save", args)
	if err != nil {
		return err
	}
	if !a.store.CheckAuth(ctx) {
		return views.ErrLoginRequired
	}
	d := views.NewDetail(a.api, a.store, id, a.logger)
	defer closeOnCancel(ctx, d)()
	if err := d.ToggleSave(); err != nil {
		return err
	}
	if d.State().IsSaved {
		okColor.Fprintln(a.out, "Event saved")
	} else {
		okColor.Fprintln(a.out, "Event unsaved")
	}
	return nil
}

func (a *app) dashboard(ctx context.Context, args []string) error {
	if !a.store.CheckAuth(ctx) {
		return views.ErrLoginRequired
	}
	d := views.NewDashboard(a.api, a.store, a.logger)
	defer closeOnCancel(ctx, d)()
	if err := d.Load(); err != nil {
		return err
	}
	st := d.State()
	titleColor.Fprintln(a.out, "My Events")
	if err := a.printEvents(st.MyEvents); err != nil {
		return err
	}
	fmt.Fprintln(a.out)
	titleColor.Fprintln(a.out, "Saved Events")
	return a.printEvents(st.SavedEvents)
}

func (a *app) idArg(name string, args []string) (string, error) {
	fs := a.flagSet(name)
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return "", fmt.Errorf("%s needs exactly one event id", name)
	}
	return fs.Arg(0), nil
}

func (a *app) printEvents(events []*domain.Event) error {
	if len(events) == 0 {
		fmt.Fprintln(a.out, "No events found")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tCATEGORY\tTITLE\tLOCATION")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", ev.ID, ev.Date, ev.Time, ev.Category, ev.Title, ev.Location)
	}
	return tw.Flush()
}

func (a *app) printEvent(ev *domain.Event) {
	titleColor.Fprintln(a.out, ev.Title)
	fmt.Fprintf(a.out, "  id:        %s\n", ev.ID)
	fmt.Fprintf(a.out, "  when:      %s %s\n", ev.Date, ev.Time)
	fmt.Fprintf(a.out, "  where:     %s\n", ev.Location)
	fmt.Fprintf(a.out, "  category:  %s\n", ev.Category)
	creator := ev.CreatedBy.Username
	if creator == "" {
		creator = ev.CreatedBy.ID
	}
	fmt.Fprintf(a.out, "  by:        %s\n", creator)
	if ev.Image != "" {
		fmt.Fprintf(a.out, "  image:     %s\n", ev.Image)
	}
	if ev.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", ev.Description)
	}
}
