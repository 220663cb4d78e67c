// Package cli provides the Cobra-based CLI for stockctl.
package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stockctl/api"
	"stockctl/controller"
	"stockctl/decor"
	"stockctl/domain"
	"stockctl/query"
	"stockctl/render"
)

var (
	rootCmd = &cobra.Command{
		Use:   "stockctl",
		Short: "A terminal client for the product inventory API",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// IMPORTANT: allow tests to inject backend
			if backend != nil {
				return nil
			}

			// a local .env may carry STOCKCTL_API_URL and friends
			_ = godotenv.Load()

			if cfg := viper.GetString("config"); cfg != "" {
				viper.SetConfigFile(cfg)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}

			lvlStr := strings.ToLower(viper.GetString("log-level"))
			lvl := slog.LevelInfo
			switch lvlStr {
			case "debug":
				lvl = slog.LevelDebug
			case "warn", "warning":
				lvl = slog.LevelWarn
			case "error":
				lvl = slog.LevelError
			}
			slog.SetDefault(slog.New(
				slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}),
			))

			var err error
			theme, err = decor.ParseTheme(viper.GetString("theme"))
			if err != nil {
				return err
			}

			backend, err = api.NewBackend(
				viper.GetString("backend"),
				viper.GetString("api-url"),
				viper.GetString("backend-file"),
				viper.GetDuration("timeout"),
			)
			return err
		},
	}

	backend domain.ProductAPI
	theme   decor.Theme
)

func newRenderer() *render.Renderer {
	return render.New(theme, !viper.GetBool("no-color"))
}

// fetchState runs one controller refresh cycle and returns the settled
// state, surfacing the controller's error string as a command error.
func fetchState(ctx context.Context, params query.Params) (controller.State, error) {
	ctrl := controller.New(backend, params, slog.Default())
	ctrl.Refresh(ctx)
	ctrl.Wait()
	st := ctrl.State()
	if st.Err != "" {
		return st, errors.New(st.Err)
	}
	return st, nil
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "http://localhost:8080", "REST API base URL")
	rootCmd.PersistentFlags().String("backend", "http", "backend: http|memory|file")
	rootCmd.PersistentFlags().String("backend-file", "data/products.json", "file backend path")
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")
	rootCmd.PersistentFlags().String("theme", "light", "color theme: light|dark")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable row coloring")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "request timeout")

	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
	viper.BindPFlag("backend-file", rootCmd.PersistentFlags().Lookup("backend-file"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.SetEnvPrefix("STOCKCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// list
	var lName, lCategory, lAvailable, lSortBy, lDirection, lOutput string
	var lPage, lSize int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products with filters, sorting and pagination",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := buildListParams(lName, lCategory, lAvailable, lSortBy, lDirection, lPage, lSize)
			if err != nil {
				return err
			}
			st, err := fetchState(cmd.Context(), params)
			if err != nil {
				return err
			}
			if lOutput == "json" {
				b, _ := json.MarshalIndent(st.Products, "", "  ")
				fmt.Println(string(b))
				return nil
			}
			newRenderer().ProductTable(os.Stdout, st.Products)
			return nil
		},
	}
	listCmd.Flags().StringVar(&lName, "name", "", "name substring filter")
	listCmd.Flags().StringVar(&lCategory, "category", "", "category ids, hyphen-joined (e.g. 1-3)")
	listCmd.Flags().StringVar(&lAvailable, "available", "", "availability: true|false")
	listCmd.Flags().StringVar(&lSortBy, "sort-by", "", "sort fields, hyphen-joined (max 2)")
	listCmd.Flags().StringVar(&lDirection, "direction", "", "sort directions, hyphen-joined")
	listCmd.Flags().IntVar(&lPage, "page", 0, "page index")
	listCmd.Flags().IntVar(&lSize, "size", query.DefaultPageSize, "page size")
	listCmd.Flags().StringVar(&lOutput, "output", "", "output format: json")
	rootCmd.AddCommand(listCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := backend.GetProduct(cmd.Context(), id)
			if err != nil {
				if domain.IsProductNotFoundError(err) {
					fmt.Fprintln(os.Stderr, err)
					return nil
				}
				return err
			}
			b, _ := json.MarshalIndent(p, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
	rootCmd.AddCommand(getCmd)

	// create
	var cName, cExpires string
	var cCategoryID int64
	var cPrice float64
	var cStock int
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := domain.ProductRequest{
				Name:           cName,
				Category:       domain.Category{ID: cCategoryID},
				UnitPrice:      cPrice,
				ExpirationDate: cExpires,
				Stock:          cStock,
			}
			if err := domain.ValidateRequest(req); err != nil {
				return err
			}
			start := time.Now()
			p, err := backend.CreateProduct(cmd.Context(), req)
			if err != nil {
				slog.Error("create failed", "name", cName, "error", err)
				return err
			}
			slog.Info("product created", "product_id", p.ID, "duration_ms", time.Since(start).Milliseconds())
			b, _ := json.MarshalIndent(p, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
	createCmd.Flags().StringVar(&cName, "name", "", "name")
	createCmd.Flags().Int64Var(&cCategoryID, "category", 0, "category id")
	createCmd.Flags().Float64Var(&cPrice, "price", 0, "unit price")
	createCmd.Flags().StringVar(&cExpires, "expires", "", "expiration date (YYYY-MM-DD)")
	createCmd.Flags().IntVar(&cStock, "stock", 0, "stock")
	rootCmd.AddCommand(createCmd)

	// update
	var uName, uExpires string
	var uCategoryID int64
	var uPrice float64
	var uStock int
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			p, err := backend.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}

			req := domain.ProductRequest{
				Name:           p.Name,
				Category:       p.Category,
				UnitPrice:      p.UnitPrice,
				ExpirationDate: p.ExpirationDate,
				Stock:          p.Stock,
			}
			if cmd.Flags().Changed("name") {
				req.Name = uName
			}
			if cmd.Flags().Changed("category") {
				req.Category = domain.Category{ID: uCategoryID}
			}
			if cmd.Flags().Changed("price") {
				req.UnitPrice = uPrice
			}
			if cmd.Flags().Changed("expires") {
				req.ExpirationDate = uExpires
			}
			if cmd.Flags().Changed("stock") {
				req.Stock = uStock
			}

			if err := domain.ValidateRequest(req); err != nil {
				return err
			}

			start := time.Now()
			updated, err := backend.UpdateProduct(cmd.Context(), id, req)
			if err != nil {
				slog.Error("update failed", "product_id", id, "error", err)
				return err
			}

			slog.Info(
				"product updated",
				"product_id", id,
				"duration_ms", time.Since(start).Milliseconds(),
			)

			b, _ := json.MarshalIndent(updated, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
	updateCmd.Flags().StringVar(&uName, "name", "", "name")
	updateCmd.Flags().Int64Var(&uCategoryID, "category", 0, "category id")
	updateCmd.Flags().Float64Var(&uPrice, "price", 0, "unit price")
	updateCmd.Flags().StringVar(&uExpires, "expires", "", "expiration date (YYYY-MM-DD)")
	updateCmd.Flags().IntVar(&uStock, "stock", 0, "stock")
	rootCmd.AddCommand(updateCmd)

	// delete
	var force bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !force {
				fmt.Printf("Delete %d? (y/N): ", id)
				var resp string
				if _, err := fmt.Scanln(&resp); err != nil || (resp != "y" && resp != "Y") {
					fmt.Println("aborted")
					return nil
				}
			}
			if _, err := backend.DeleteProduct(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
	deleteCmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	rootCmd.AddCommand(deleteCmd)

	// outofstock
	outOfStockCmd := &cobra.Command{
		Use:   "outofstock <id>",
		Short: "Mark a product out of stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := backend.SetOutOfStock(cmd.Context(), id)
			if err != nil {
				return err
			}
			slog.Info("product marked out of stock", "product_id", id)
			b, _ := json.MarshalIndent(p, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
	rootCmd.AddCommand(outOfStockCmd)

	// instock
	var quantity int
	inStockCmd := &cobra.Command{
		Use:   "instock <id>",
		Short: "Mark a product back in stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := backend.SetInStock(cmd.Context(), id, quantity)
			if err != nil {
				return err
			}
			slog.Info("product restocked", "product_id", id, "quantity", quantity)
			b, _ := json.MarshalIndent(p, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
	inStockCmd.Flags().IntVar(&quantity, "quantity", domain.DefaultRestockQuantity, "stock level to set")
	rootCmd.AddCommand(inStockCmd)

	// metrics
	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show per-category stock metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := fetchState(cmd.Context(), query.Default())
			if err != nil {
				return err
			}
			newRenderer().MetricsTable(os.Stdout, st.Metrics)
			return nil
		},
	}
	rootCmd.AddCommand(metricsCmd)

	// categories
	categoriesCmd := &cobra.Command{
		Use:   "categories [id]",
		Short: "List categories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				cat, err := backend.Category(cmd.Context(), id)
				if err != nil {
					return err
				}
				b, _ := json.MarshalIndent(cat, "", "  ")
				fmt.Println(string(b))
				return nil
			}
			cats, err := backend.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, cat := range cats {
				fmt.Printf("%d | %s\n", cat.ID, cat.Name)
			}
			return nil
		},
	}
	rootCmd.AddCommand(categoriesCmd)

	// import (supports JSON array and NDJSON)
	var importFile string
	importCmd := &cobra.Command{
		Use:   "import --file <file>",
		Short: "Bulk-create products from JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if importFile == "" {
				return errors.New("--file required")
			}

			b, err := os.ReadFile(importFile)
			if err != nil {
				return err
			}

			btrim := bytes.TrimSpace(b)
			if len(btrim) == 0 {
				return errors.New("empty file")
			}

			var reqs []domain.ProductRequest

			// JSON array
			if btrim[0] == '[' {
				if err := json.Unmarshal(btrim, &reqs); err != nil {
					return err
				}
			} else {
				// NDJSON or single JSON object
				scanner := bufio.NewScanner(bytes.NewReader(btrim))
				for scanner.Scan() {
					line := bytes.TrimSpace(scanner.Bytes())
					if len(line) == 0 {
						continue
					}
					var req domain.ProductRequest
					if err := json.Unmarshal(line, &req); err != nil {
						return err
					}
					reqs = append(reqs, req)
				}
				if err := scanner.Err(); err != nil {
					return err
				}
			}

			return api.BulkCreate(cmd.Context(), backend, reqs)
		},
	}
	importCmd.Flags().StringVar(&importFile, "file", "", "input file")
	rootCmd.AddCommand(importCmd)

	// export
	var exportFile, exportCategory string
	exportCmd := &cobra.Command{
		Use:   "export --file <file>",
		Short: "Export products to JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportFile == "" {
				return errors.New("--file required")
			}
			ids, err := query.ParseCategoryIDs(exportCategory)
			if err != nil {
				return err
			}
			all, err := fetchAllPages(cmd.Context(), query.Params{CategoryIDs: ids, Size: 50})
			if err != nil {
				return err
			}
			b, _ := json.MarshalIndent(all, "", "  ")
			return os.WriteFile(exportFile, b, 0o644)
		},
	}
	exportCmd.Flags().StringVar(&exportFile, "file", "", "output file")
	exportCmd.Flags().StringVar(&exportCategory, "category", "", "category ids, hyphen-joined")
	rootCmd.AddCommand(exportCmd)

	rootCmd.AddCommand(newShellCmd())
}

func buildListParams(name, category, available, sortBy, direction string, page, size int) (query.Params, error) {
	params := query.Default()
	params.Name = name
	params.Page = page
	params.Size = size

	ids, err := query.ParseCategoryIDs(category)
	if err != nil {
		return query.Params{}, err
	}
	params.CategoryIDs = ids

	if available != "" {
		switch strings.ToLower(available) {
		case "true":
			v := true
			params.Available = &v
		case "false":
			v := false
			params.Available = &v
		default:
			return query.Params{}, fmt.Errorf("invalid --available %q (true|false)", available)
		}
	}

	params.Sort, err = query.ParseSort(sortBy, direction)
	if err != nil {
		return query.Params{}, err
	}
	return params, nil
}

// fetchAllPages walks the full paginated list.
func fetchAllPages(ctx context.Context, params query.Params) ([]domain.Product, error) {
	var all []domain.Product
	for page := 0; ; page++ {
		params.Page = page
		result, err := backend.ListProducts(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, result.Products...)
		if page+1 >= result.TotalPages || len(result.Products) == 0 {
			return all, nil
		}
	}
}

func parseID(s string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func Execute() error {
	return rootCmd.Execute()
}
