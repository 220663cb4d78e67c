package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stockctl/controller"
	"stockctl/query"
)

const shellHelp = `commands:
  show                     render the current page and metrics
  filter <text> | filter - set or clear the name filter
  category <ids> | category -   set (e.g. 1-3) or clear the category filter
  available true|false|-   filter by availability, - for both
  sort <field>             cycle a column: asc, desc, off (max 2 active)
  page <n> | next | prev   change page (1-based)
  size <n>                 change page size (resets to first page)
  refresh                  refetch with unchanged params
  clear                    drop all filters and sorting, back to page 1
  metrics                  render the metrics table
  help                     this text
  exit | quit              leave the shell`

// newShellCmd is the interactive mode: one controller instance drives the
// whole session, the same way the web client's table does.
func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive browse mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl := controller.New(backend, query.Default(), slog.Default())
			rnd := newRenderer()

			show := func() {
				st := ctrl.State()
				if st.Err != "" {
					fmt.Fprintln(os.Stderr, "error:", st.Err)
				}
				rnd.ProductTable(os.Stdout, st.Products)
			}

			ctrl.Refresh(ctx)
			ctrl.Wait()
			show()

			r := bufio.NewReader(os.Stdin)
			for {
				fmt.Print("stockctl> ")
				line, err := r.ReadString('\n')
				if err != nil {
					return nil
				}
				fields := strings.Fields(line)
				if len(fields) == 0 {
					continue
				}
				cmdName, rest := fields[0], fields[1:]

				var patch query.Patch
				apply := false

				switch cmdName {
				case "exit", "quit":
					return nil
				case "help":
					fmt.Println(shellHelp)
					continue
				case "show":
					show()
					continue
				case "metrics":
					rnd.MetricsTable(os.Stdout, ctrl.State().Metrics)
					continue
				case "refresh":
					ctrl.Refresh(ctx)
					ctrl.Wait()
					show()
					continue
				case "clear":
					patch = query.Patch{
						Name:        query.Clear[string](),
						CategoryIDs: query.Clear[[]int64](),
						Available:   query.Clear[bool](),
						Sort:        query.Clear[query.Sort](),
						Page:        query.Clear[int](),
						Size:        query.Clear[int](),
					}
					apply = true
				case "filter":
					if len(rest) == 0 || rest[0] == "-" {
						patch.Name = query.Clear[string]()
					} else {
						patch.Name = query.Set(strings.Join(rest, " "))
					}
					apply = true
				case "category":
					if len(rest) == 0 || rest[0] == "-" {
						patch.CategoryIDs = query.Clear[[]int64]()
					} else {
						ids, err := query.ParseCategoryIDs(rest[0])
						if err != nil {
							fmt.Fprintln(os.Stderr, err)
							continue
						}
						patch.CategoryIDs = query.Set(ids)
					}
					apply = true
				case "available":
					if len(rest) == 0 || rest[0] == "-" {
						patch.Available = query.Clear[bool]()
					} else if rest[0] == "true" || rest[0] == "false" {
						patch.Available = query.Set(rest[0] == "true")
					} else {
						fmt.Fprintln(os.Stderr, "usage: available true|false|-")
						continue
					}
					apply = true
				case "sort":
					if len(rest) == 0 {
						fmt.Fprintln(os.Stderr, "usage: sort <name|category|price|expirationDate|stock>")
						continue
					}
					field, err := query.ParseSortField(rest[0])
					if err != nil {
						fmt.Fprintln(os.Stderr, err)
						continue
					}
					next := query.AdvanceSort(ctrl.Params().Sort, field)
					patch.Sort = query.Set(next)
					patch.Page = query.Set(0)
					apply = true
				case "page":
					if len(rest) == 0 {
						fmt.Fprintln(os.Stderr, "usage: page <n>")
						continue
					}
					n, err := strconv.Atoi(rest[0])
					if err != nil || n < 1 {
						fmt.Fprintln(os.Stderr, "page must be a positive number")
						continue
					}
					patch.Page = query.Set(n - 1)
					apply = true
				case "next":
					st := ctrl.State()
					p := ctrl.Params()
					if st.Products.TotalPages > 0 && p.Page+1 >= st.Products.TotalPages {
						fmt.Println("already on the last page")
						continue
					}
					patch.Page = query.Set(p.Page + 1)
					apply = true
				case "prev":
					p := ctrl.Params()
					if p.Page == 0 {
						fmt.Println("already on the first page")
						continue
					}
					patch.Page = query.Set(p.Page - 1)
					apply = true
				case "size":
					if len(rest) == 0 {
						fmt.Fprintln(os.Stderr, "usage: size <n>")
						continue
					}
					n, err := strconv.Atoi(rest[0])
					if err != nil || n < 1 {
						fmt.Fprintln(os.Stderr, "size must be a positive number")
						continue
					}
					patch.Size = query.Set(n)
					patch.Page = query.Set(0)
					apply = true
				default:
					fmt.Fprintf(os.Stderr, "unknown command %q (try help)\n", cmdName)
					continue
				}

				if apply {
					ctrl.UpdateParams(ctx, patch)
					ctrl.Wait()
					show()
				}
			}
		},
	}
}
