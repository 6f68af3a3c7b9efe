// Command inspect dumps a badger keyspace of the workspace-chat store as a
// table. Useful to eyeball messages, notifications and memberships during
// development.
//
// Usage: inspect -db ./data/badger -prefix "msg:"
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, notif:, member:, workspace:, user:, session:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Timestamp", "Fields"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// Locator keys hold a primary key, not a record.
			if strings.HasPrefix(key, "msgid:") || strings.HasPrefix(key, "userid:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				var record map[string]any
				if err := cbor.Unmarshal(v, &record); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", key, err)
					return nil
				}
				table.Append([]string{shorten(key), keyTimestamp(key), formatRecord(record)})
				rows++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Error while scanning: ", err)
	}

	color.Cyan.Printf("Scanned prefix %q: %d record(s)\n\n", *prefix, rows)
	table.Render()
}

// keyTimestamp extracts the padded-nanosecond segment present in message and
// notification keys.
func keyTimestamp(key string) string {
	for _, part := range strings.Split(key, ":") {
		if len(part) == 19 {
			if nanos, err := strconv.ParseInt(part, 10, 64); err == nil {
				return time.Unix(0, nanos).UTC().Format(time.RFC3339)
			}
		}
	}
	return "-"
}

func formatRecord(record map[string]any) string {
	fields := make([]string, 0, len(record))
	for name, value := range record {
		fields = append(fields, fmt.Sprintf("%s=%v", name, shorten(fmt.Sprint(value))))
	}
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

func shorten(s string) string {
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}
