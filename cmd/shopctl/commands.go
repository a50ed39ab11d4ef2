package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"sync"
	"time"

	"shoppingCart/internal/app"
	"shoppingCart/internal/apperr"
	"shoppingCart/internal/config"
	"shoppingCart/internal/geo"
	"shoppingCart/internal/remote"
	"shoppingCart/internal/service"
	"shoppingCart/internal/task"
	"shoppingCart/models"
)

var commands = map[string]command{
	"register": {"-name -email -password [-phone]", cmdRegister},
	"login":    {"-email -password [-remote]", cmdLogin},
	"logout": {"", func(ctx context.Context, a *app.App, _ *config.Config, _ []string) (any, error) {
		return nil, a.Users.Logout(ctx)
	}},
	"whoami": {"", func(_ context.Context, a *app.App, _ *config.Config, _ []string) (any, error) {
		return a.Users.Current()
	}},
	"products": {"[-cached]", cmdProducts},
	"product":  {"-id", cmdProduct},
	"bookmark": {"-id", cmdBookmark},
	"bookmarks": {"", func(ctx context.Context, a *app.App, _ *config.Config, _ []string) (any, error) {
		return a.Products.Bookmarks(ctx)
	}},
	"cart":          {"list the cart with its total", cmdCart},
	"cart-toggle":   {"-id", cmdCartToggle},
	"cart-set":      {"-id -qty (0 removes)", cmdCartSet},
	"cart-sync":     {"push the local cart to the backend", cmdCartSync},
	"checkout":      {"[-method cash|card] [-card ID] [-address ID] [-submit]", cmdCheckout},
	"orders":        {"[-size N] [-page TOKEN] [-remote]", cmdOrders},
	"order-cancel":  {"-id", cmdOrderStatus("cancel")},
	"order-deliver": {"-id", cmdOrderStatus("deliver")},
	"scan":          {"-code [-save] [-note]", cmdScan},
	"scans":         {"[-limit N]", cmdScans},
	"search":        {"[-q QUERY] [-clear]", cmdSearch},
	"prices":        {"-barcode | -cart [-lat -lng]", cmdPrices},
	"card-add":      {"-holder -number -month -year", cmdCardAdd},
	"cards": {"", func(ctx context.Context, a *app.App, _ *config.Config, _ []string) (any, error) {
		return a.Cards.List(ctx)
	}},
	"address-add": {"-label -recipient -phone -street -city -postal -country [-lat -lng]", cmdAddressAdd},
	"addresses": {"", func(ctx context.Context, a *app.App, _ *config.Config, _ []string) (any, error) {
		return a.Addresses.List(ctx)
	}},
	"todo":           {"[-group ID] [-new TITLE] [-add TITLE] [-toggle ITEM]", cmdTodo},
	"health":         {"[-service NAME]", cmdHealth},
	"home":           {"catalog, bookmarks, cart total and recent orders", cmdHome},
	"profile":        {"-name [-phone]", cmdProfile},
	"password-reset": {"-email -password", cmdPasswordReset},
	"card-delete":    {"-id", cmdDelete("card", func(ctx context.Context, a *app.App, id int64) error { return a.Cards.Delete(ctx, id) })},
	"address-delete": {"-id", cmdDelete("address", func(ctx context.Context, a *app.App, id int64) error { return a.Addresses.Delete(ctx, id) })},
	"scan-delete":    {"-id", cmdDelete("scan", func(ctx context.Context, a *app.App, id int64) error { return a.Barcodes.Delete(ctx, id) })},
	"todo-delete":    {"-id (list)", cmdDelete("todo", func(ctx context.Context, a *app.App, id int64) error { return a.Todos.DeleteGroup(ctx, id) })},
	"nearest":        {"-lat -lng", cmdNearest},
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return apperr.Custom(err.Error())
	}
	return nil
}

func cmdRegister(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var in service.RegisterInput
	fs.StringVar(&in.Name, "name", "", "display name")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.Phone, "phone", "", "phone number")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return a.Users.Register(ctx, in)
}

func cmdLogin(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	useRemote := fs.Bool("remote", false, "sign in against the backend")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *useRemote {
		return a.Users.RemoteLogin(ctx, *email, *password)
	}
	return a.Users.Login(ctx, *email, *password)
}

func cmdProducts(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	cached := fs.Bool("cached", false, "read the local cache only")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *cached {
		return a.Products.Cached(ctx, 0, 0)
	}
	return a.Products.List(ctx)
}

func cmdProduct(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("product", flag.ContinueOnError)
	id := fs.Int64("id", 0, "product id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	p, err := a.Products.Get(ctx, *id)
	if err != nil {
		return nil, err
	}
	marked, err := a.Products.IsBookmarked(ctx, *id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"product": p, "bookmarked": marked}, nil
}

func cmdBookmark(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("bookmark", flag.ContinueOnError)
	id := fs.Int64("id", 0, "product id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	on, err := a.Products.ToggleBookmark(ctx, *id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"product_id": *id, "bookmarked": on}, nil
}

func cmdCart(ctx context.Context, a *app.App, _ *config.Config, _ []string) (any, error) {
	lines, err := a.Cart.Items(ctx)
	if err != nil {
		return nil, err
	}
	total, err := a.Cart.Total(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"lines": lines, "total": total}, nil
}

func cmdCartToggle(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("cart-toggle", flag.ContinueOnError)
	id := fs.Int64("id", 0, "product id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	in, err := a.Cart.Toggle(ctx, *id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"product_id": *id, "in_cart": in}, nil
}

func cmdCartSet(ctx context.Context, a *app.App, cfg *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("cart-set", flag.ContinueOnError)
	id := fs.Int64("id", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := a.Cart.SetQuantity(ctx, *id, *qty); err != nil {
		return nil, err
	}
	return cmdCart(ctx, a, cfg, nil)
}

func cmdCartSync(ctx context.Context, a *app.App, _ *config.Config, _ []string) (any, error) {
	return nil, a.Cart.Sync(ctx)
}

func cmdCheckout(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	method := fs.String("method", string(models.PaymentCash), "cash or card")
	card := fs.Int64("card", 0, "saved card id")
	address := fs.Int64("address", 0, "saved address id")
	submit := fs.Bool("submit", false, "also send the order to the backend")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	in := service.CheckoutInput{Method: models.PaymentMethod(*method)}
	if *card != 0 {
		in.CardID = card
	}
	if *address != 0 {
		in.AddressID = address
	}
	o, err := a.Orders.Checkout(ctx, in)
	if err != nil {
		return nil, err
	}
	if *submit {
		return a.Orders.Submit(ctx, o.ID)
	}
	return o, nil
}

func cmdOrders(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	size := fs.Int("size", 20, "page size")
	page := fs.String("page", "", "page token from a previous call")
	fromRemote := fs.Bool("remote", false, "list the backend's orders instead")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *fromRemote {
		return a.Orders.RemoteHistory(ctx)
	}
	list, next, err := a.Orders.History(ctx, *size, *page)
	if err != nil {
		return nil, err
	}
	return map[string]any{"orders": list, "next_page": next}, nil
}

func cmdOrderStatus(action string) func(context.Context, *app.App, *config.Config, []string) (any, error) {
	return func(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
		fs := flag.NewFlagSet("order-"+action, flag.ContinueOnError)
		id := fs.String("id", "", "order id")
		if err := parse(fs, args); err != nil {
			return nil, err
		}
		if action == "cancel" {
			return a.Orders.Cancel(ctx, *id)
		}
		return a.Orders.MarkDelivered(ctx, *id)
	}
}

func cmdScan(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	code := fs.String("code", "", "barcode")
	save := fs.Bool("save", false, "record the scan in the history")
	note := fs.String("note", "", "note stored with the scan")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	p, err := a.Barcodes.Resolve(ctx, *code)
	if err != nil {
		return nil, err
	}
	if *save {
		if _, err := a.Barcodes.Save(ctx, *code, p.Name, *note); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func cmdScans(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("scans", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max entries")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return a.Barcodes.History(ctx, *limit)
}

func cmdSearch(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	q := fs.String("q", "", "query")
	clearAll := fs.Bool("clear", false, "clear the search history")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *clearAll {
		return nil, a.Search.ClearHistory(ctx)
	}
	history, err := a.Search.Record(ctx, *q)
	if err != nil {
		return nil, err
	}
	return map[string]any{"suggestions": a.Search.OnSearchQueryChanged(*q), "history": history}, nil
}

func cmdPrices(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("prices", flag.ContinueOnError)
	barcode := fs.String("barcode", "", "product barcode")
	cart := fs.Bool("cart", false, "compare every product in the cart")
	lat := fs.Float64("lat", 0, "your latitude")
	lng := fs.Float64("lng", 0, "your longitude")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	var from *geo.Point
	if *lat != 0 || *lng != 0 {
		if !geo.Valid(*lat, *lng) {
			return nil, apperr.Custom("coordinates out of range")
		}
		from = &geo.Point{Lat: *lat, Lng: *lng}
	}
	if *cart {
		return a.Prices.CompareCart(ctx, from)
	}
	return a.Prices.Compare(ctx, *barcode, from)
}

func cmdCardAdd(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("card-add", flag.ContinueOnError)
	var in service.CardInput
	fs.StringVar(&in.Holder, "holder", "", "name on card")
	fs.StringVar(&in.Number, "number", "", "card number")
	fs.IntVar(&in.ExpMonth, "month", 0, "expiry month")
	fs.IntVar(&in.ExpYear, "year", 0, "expiry year")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return a.Cards.Register(ctx, in)
}

func cmdAddressAdd(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("address-add", flag.ContinueOnError)
	var l models.Location
	fs.StringVar(&l.Label, "label", "Home", "label")
	fs.StringVar(&l.Recipient, "recipient", "", "recipient name")
	fs.StringVar(&l.Phone, "phone", "", "phone")
	fs.StringVar(&l.Street, "street", "", "street")
	fs.StringVar(&l.City, "city", "", "city")
	fs.StringVar(&l.PostalCode, "postal", "", "postal code")
	fs.StringVar(&l.Country, "country", "", "two-letter country code")
	lat := fs.Float64("lat", 0, "latitude")
	lng := fs.Float64("lng", 0, "longitude")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *lat != 0 || *lng != 0 {
		l.Lat, l.Lng = lat, lng
	}
	return a.Addresses.Save(ctx, &l)
}

func cmdTodo(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	group := fs.Int64("group", 0, "list id")
	newTitle := fs.String("new", "", "create a list")
	add := fs.String("add", "", "add an item to -group")
	toggle := fs.Int64("toggle", 0, "toggle an item")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	switch {
	case *newTitle != "":
		return a.Todos.CreateGroup(ctx, *newTitle)
	case *add != "":
		return a.Todos.AddItem(ctx, *group, *add)
	case *toggle != 0:
		return a.Todos.ToggleItem(ctx, *toggle)
	case *group != 0:
		return a.Todos.GroupWithItems(ctx, *group)
	default:
		return a.Todos.Groups(ctx)
	}
}

func cmdHealth(ctx context.Context, a *app.App, cfg *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	svc := fs.String("service", "", "service name; empty checks the whole server")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if cfg.Remote.GRPCAddress == "" {
		return nil, apperr.Custom("API_GRPC_ADDRESS is not configured")
	}
	conn, err := remote.DialGRPC(cfg.Remote.GRPCAddress, a.State)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	cctx, cancel := context.WithTimeout(ctx, cfg.Remote.Timeout)
	defer cancel()
	start := time.Now()
	if err := remote.HealthCheck(cctx, conn, *svc); err != nil {
		return nil, err
	}
	return map[string]string{"status": "SERVING", "latency": fmt.Sprint(time.Since(start).Round(time.Millisecond))}, nil
}

// cmdHome loads the pieces of the home screen side by side. Sections that fail
// are reported and the rest still render.
func cmdHome(ctx context.Context, a *app.App, _ *config.Config, _ []string) (any, error) {
	scope := task.NewScope(ctx)
	defer scope.Close()

	var (
		mu   sync.Mutex
		view = map[string]any{}
		errs []error
	)
	load := func(name string, fn func(context.Context) (any, error)) {
		scope.Go(func(ctx context.Context) error {
			v, err := fn(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			mu.Lock()
			view[name] = v
			mu.Unlock()
			return nil
		}, func(err error) {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		})
	}

	load("products", func(ctx context.Context) (any, error) { return a.Products.Cached(ctx, 20, 0) })
	load("bookmarks", func(ctx context.Context) (any, error) { return a.Products.Bookmarks(ctx) })
	load("cart_total", func(ctx context.Context) (any, error) { return a.Cart.Total(ctx) })
	load("cart_count", func(ctx context.Context) (any, error) { return a.Cart.Count(ctx) })
	if a.State.UserID() != 0 {
		load("orders", func(ctx context.Context) (any, error) {
			list, _, err := a.Orders.History(ctx, 5, "")
			return list, err
		})
	}
	if err := scope.Wait(); err != nil && len(view) == 0 {
		return nil, errors.Join(errs...)
	}
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		view["errors"] = msgs
	}
	return view, nil
}

func cmdProfile(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	var in service.ProfileInput
	fs.StringVar(&in.Name, "name", "", "display name")
	fs.StringVar(&in.Phone, "phone", "", "phone number")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return a.Users.UpdateProfile(ctx, in)
}

func cmdPasswordReset(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("password-reset", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "new password")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return nil, a.Users.ResetPassword(ctx, *email, *password)
}

func cmdDelete(what string, del func(context.Context, *app.App, int64) error) func(context.Context, *app.App, *config.Config, []string) (any, error) {
	return func(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
		fs := flag.NewFlagSet(what+"-delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, what+" id")
		if err := parse(fs, args); err != nil {
			return nil, err
		}
		return nil, del(ctx, a, *id)
	}
}

func cmdNearest(ctx context.Context, a *app.App, _ *config.Config, args []string) (any, error) {
	fs := flag.NewFlagSet("nearest", flag.ContinueOnError)
	lat := fs.Float64("lat", 0, "latitude")
	lng := fs.Float64("lng", 0, "longitude")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if !geo.Valid(*lat, *lng) {
		return nil, apperr.Custom("coordinates out of range")
	}
	return a.Addresses.Nearest(ctx, geo.Point{Lat: *lat, Lng: *lng})
}
