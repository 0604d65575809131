package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jacentio/sdbmap/internal/itemname"
	"github.com/jacentio/sdbmap/store"
)

var itemNameCmd = &cobra.Command{
	Use:   "itemname <storage-name> <key-value>...",
	Short: "Print the item name for a set of key values",
	Long: `Print the item name for a set of key values.

Key values must be given in the order of their property names and
already rendered the way they are stored.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), itemname.Name(args[0], args[1:]))
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <item-name>",
	Short: "Print the attributes of an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, err := openDomain(cmd.Context())
		if err != nil {
			return err
		}
		attrs, err := domain.GetAttributes(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printAttributes(cmd.OutOrStdout(), "", attrs)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <expression>",
	Short: "List the items matching a query expression",
	Example: `  sdbq query "['simpledb_type' = 'people'] intersection ['age' > '00000000000000000000000000000020']"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, err := openDomain(cmd.Context())
		if err != nil {
			return err
		}

		namesOnly := viper.GetBool("names-only")
		out := cmd.OutOrStdout()
		count := 0
		for item, err := range domain.Query(cmd.Context(), args[0], !namesOnly) {
			if err != nil {
				return err
			}
			fmt.Fprintln(out, item.Name)
			if !namesOnly {
				printAttributes(out, "  ", item.Attributes)
			}
			count++
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d item(s)\n", count)
		return nil
	},
}

var putCmd = &cobra.Command{
	Use:   "put <item-name> <attribute=value>...",
	Short: "Add attribute values to an item",
	Long: `Add attribute values to an item. Repeating an attribute adds
several values. Existing values are kept.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := parsePairs(args[1:], true)
		if err != nil {
			return err
		}
		domain, err := openDomain(cmd.Context())
		if err != nil {
			return err
		}
		return domain.PutAttributes(cmd.Context(), args[0], attrs)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <item-name> [attribute[=value]]...",
	Short: "Delete an item or some of its attribute values",
	Long: `Delete an item or some of its attribute values.

Without attributes the whole item is deleted. An attribute without a
value removes every value of that attribute.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := parsePairs(args[1:], false)
		if err != nil {
			return err
		}
		domain, err := openDomain(cmd.Context())
		if err != nil {
			return err
		}
		return domain.DeleteAttributes(cmd.Context(), args[0], attrs)
	},
}

var createTableCmd = &cobra.Command{
	Use:   "create-table",
	Short: "Create the backing table and wait until it is active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		cfg := storeConfig()
		if err := store.CreateTable(cmd.Context(), client, cfg, viper.GetDuration("wait")); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "table %s is active\n", cfg.TableName)
		return nil
	},
}

func init() {
	queryCmd.Flags().Bool("names-only", false, "print item names without attributes")
	createTableCmd.Flags().Duration("wait", 2*time.Minute, "how long to wait for the table to become active")
}

// parsePairs turns attribute=value arguments into attributes. When
// requireValue is false a bare attribute name maps to no values.
func parsePairs(args []string, requireValue bool) (store.Attributes, error) {
	if len(args) == 0 {
		return nil, nil
	}
	attrs := store.Attributes{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if name == "" {
			return nil, fmt.Errorf("invalid attribute %q", arg)
		}
		if !ok {
			if requireValue {
				return nil, fmt.Errorf("attribute %q has no value, expected attribute=value", arg)
			}
			if _, seen := attrs[name]; !seen {
				attrs[name] = nil
			}
			continue
		}
		attrs[name] = append(attrs[name], value)
	}
	return attrs, nil
}

// printAttributes writes one "name = value" line per attribute value, sorted
// by name.
func printAttributes(w io.Writer, indent string, attrs store.Attributes) {
	for _, name := range attrs.Names() {
		for _, value := range attrs[name] {
			fmt.Fprintf(w, "%s%s = %s\n", indent, name, value)
		}
	}
}
