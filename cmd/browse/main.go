// Command browse drives a single browsing session from stdin, one event per
// line, and prints the resulting cards.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"listings-be/internal/attribute"
	"listings-be/internal/catalog"
	"listings-be/internal/config"
	"listings-be/internal/criteria"
	"listings-be/internal/favorites"
	"listings-be/internal/listing"
	"listings-be/internal/logger"
	"listings-be/internal/present"
	"listings-be/internal/view"

	"go.uber.org/zap"
)

const usage = `commands:
  category <all|estate|camera|laptop|car>
  filter [checkbox ...] [field=value ...]
  price <min> <max>
  sort <popular|cheap|new>
  favorites <on|off>
  toggle <name>
  show <name>
  quit`

var errQuit = errors.New("quit")

func main() {
	file := flag.String("file", "", "read the catalog from this file instead of CATALOG_URL")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L().Fatal("failed to load config", zap.Error(err))
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx := context.Background()
	var src listing.Source = listing.NewHTTPSource(cfg.CatalogURL, cfg.CatalogFetchTimeout)
	if *file != "" {
		src = listing.FileSource{Path: *file}
	}
	listings, err := src.Load(ctx)
	if err != nil {
		logger.L().Fatal("failed to load catalog", zap.Error(err))
	}

	favs, err := favorites.Load(ctx, favorites.NewFileStore(cfg.FavoritesPath), favorites.DefaultKey)
	if err != nil {
		logger.L().Fatal("failed to load favorites", zap.Error(err))
	}

	registry := attribute.Default()
	c := catalog.New(listings, registry, cfg.PageSize)
	sh := newShell(catalog.NewSession(c, favs), c, present.NewFormatter(registry), os.Stdout)
	if err := sh.loop(ctx, os.Stdin); err != nil {
		logger.L().Fatal("browse failed", zap.Error(err))
	}
}

type shell struct {
	session *catalog.Session
	catalog *catalog.Catalog
	format  *present.Formatter
	out     io.Writer

	// input is the last submitted form, kept so a price change does not
	// reset the other filters.
	input criteria.RawInput
	price *criteria.PriceRange
}

func newShell(s *catalog.Session, c *catalog.Catalog, f *present.Formatter, out io.Writer) *shell {
	return &shell{session: s, catalog: c, format: f, out: out}
}

func (sh *shell) loop(ctx context.Context, in io.Reader) error {
	sh.print(sh.session.Render())
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		err := sh.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(sh.out, "error:", err)
		}
	}
	return scanner.Err()
}

// exec applies one command line to the session.
func (sh *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(sh.out, usage)
		return nil
	case "category":
		if len(args) != 1 {
			return fmt.Errorf("usage: category <name>")
		}
		c := listing.CategoryAll
		if args[0] != string(listing.CategoryAll) {
			parsed, ok := listing.ParseCategory(args[0])
			if !ok {
				parsed = listing.Category(args[0])
			}
			c = parsed
		}
		page, err := sh.session.ChangeCategory(c)
		if err != nil {
			return err
		}
		sh.input, sh.price = criteria.RawInput{}, nil
		sh.print(page)
	case "filter":
		in := parseInput(args)
		page, err := sh.session.SubmitFilters(in, sh.price)
		if err != nil {
			return err
		}
		sh.input = in
		sh.print(page)
	case "price":
		if len(args) != 2 {
			return fmt.Errorf("usage: price <min> <max>")
		}
		lo, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("bad min price %q", args[0])
		}
		hi, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("bad max price %q", args[1])
		}
		if lo > hi {
			return catalog.ErrInvalidPriceRange
		}
		r := sh.session.Slider().Range(lo, hi)
		page, err := sh.session.SubmitFilters(sh.input, &r)
		if err != nil {
			return err
		}
		sh.price = &r
		sh.print(page)
	case "sort":
		if len(args) != 1 {
			return fmt.Errorf("usage: sort <popular|cheap|new>")
		}
		mode, ok := view.ParseSort(args[0])
		if !ok {
			return fmt.Errorf("unknown sort %q", args[0])
		}
		sh.print(sh.session.ChangeSort(mode))
	case "favorites":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return fmt.Errorf("usage: favorites <on|off>")
		}
		sh.print(sh.session.ShowFavorites(args[0] == "on"))
	case "toggle":
		if len(args) == 0 {
			return fmt.Errorf("usage: toggle <name>")
		}
		page, on, err := sh.session.ToggleFavorite(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "favorite: %t\n", on)
		sh.print(page)
	case "show":
		if len(args) == 0 {
			return fmt.Errorf("usage: show <name>")
		}
		name := strings.Join(args, " ")
		l, ok := sh.catalog.Get(name)
		if !ok {
			return fmt.Errorf("%w: %s", listing.ErrListingNotFound, name)
		}
		sh.printPopup(sh.format.Popup(l, sh.session.Render().IsFavorite(name)))
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

// parseInput reads "name=value" tokens as field inputs and bare tokens as
// checked checkboxes.
func parseInput(args []string) criteria.RawInput {
	in := criteria.RawInput{Fields: map[string]string{}}
	for _, a := range args {
		if k, v, ok := strings.Cut(a, "="); ok {
			in.Fields[k] = v
			continue
		}
		in.Checked = append(in.Checked, a)
	}
	return in
}

func (sh *shell) print(page catalog.Page) {
	if page.Empty() {
		fmt.Fprintln(sh.out, present.EmptyMessage(page.FavoritesView))
		return
	}
	for _, c := range sh.format.Cards(page.Listings, page.IsFavorite) {
		mark := " "
		if c.Favorite {
			mark = "*"
		}
		fmt.Fprintf(sh.out, "%s %s | %s | %s | %s\n", mark, c.Name, c.Price, c.Address, c.Date)
	}
	if page.Deferred > 0 {
		fmt.Fprintf(sh.out, "(%d without full data)\n", page.Deferred)
	}
}

func (sh *shell) printPopup(p present.Popup) {
	fmt.Fprintf(sh.out, "%s\n%s\n%s\n%s\n", p.Name, p.Price, p.Address, p.Date)
	if p.Seller.Name != "" {
		fmt.Fprintf(sh.out, "seller: %s (%s)\n", p.Seller.Name, p.Seller.Rating)
	}
	for _, c := range p.Chars {
		fmt.Fprintf(sh.out, "  %s: %s\n", c.Name, c.Value)
	}
	if p.Description != "" {
		fmt.Fprintln(sh.out, p.Description)
	}
}
