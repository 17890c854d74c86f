package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/norkv/norkv/pkg/codec"
	"github.com/norkv/norkv/pkg/flash"
	"github.com/norkv/norkv/pkg/store"
)

// Command completer for readline
var completer = readline.NewPrefixCompleter(
	readline.PcItem(".help"),
	readline.PcItem(".stats"),
	readline.PcItem(".exit"),
	readline.PcItem("PUT"),
	readline.PcItem("GET"),
	readline.PcItem("DEL"),
	readline.PcItem("HAS"),
	readline.PcItem("SCAN"),
	readline.PcItem("SAVE"),
	readline.PcItem("LOAD"),
	readline.PcItem("LEN"),
)

const shellHelp = `Commands:
  PUT <key> <value>   - store a value under key
  GET <key>           - read a value (through the hot cache)
  DEL <key>           - delete a key
  HAS <key>           - probe for a key without decoding
  SCAN                - list all entries without touching the cache
  SAVE                - persist the store to the flash region
  LOAD                - reconstruct the store from the flash region
  LEN                 - entry count and capacity
  .stats              - operation counters
  .help               - this help
  .exit               - quit`

// newShellCommand builds the interactive shell subcommand.
func newShellCommand() *cobra.Command {
	var codecName string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "interactive shell over a simulated flash region",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctrl, geo, err := openFlash(cfg)
			if err != nil {
				return err
			}

			values, err := valueCodec(codecName)
			if err != nil {
				return err
			}
			db, err := store.New[string, string](cfg, codec.String{}, values)
			if err != nil {
				return err
			}
			drv, err := flash.NewDriver(ctrl, geo, flash.WithCollector(db.Collector()))
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "norkv> ",
				AutoComplete:    completer,
				InterruptPrompt: "^C",
				EOFPrompt:       ".exit",
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			fmt.Printf("norkv shell: %d-entry store, %d-byte flash region (codec %s)\n",
				cfg.IndexCapacity, cfg.FlashRegionSize, codecName)
			fmt.Println("type .help for commands")

			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt {
					continue
				}
				if err == io.EOF {
					break
				}
				if done := execute(db, drv, ctrl, cfg.FlashBaseOffset, strings.TrimSpace(line)); done {
					break
				}
			}
			return persistFlash(ctrl)
		},
	}
	cmd.Flags().StringVar(&codecName, "codec", "compact", "value codec: compact, text, or snappy")
	return cmd
}

// valueCodec maps a --codec flag value to a string codec.
func valueCodec(name string) (codec.Codec[string], error) {
	switch name {
	case "compact":
		return codec.String{}, nil
	case "text":
		return codec.JSON[string]{}, nil
	case "snappy":
		return codec.NewSnappy[string](codec.String{}), nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want compact, text, or snappy)", name)
	}
}

type shellStore = store.Store[string, string]

// execute runs one shell line, reporting whether the shell should exit.
func execute(db *shellStore, drv *flash.Driver, ctrl *flash.MemController, base uint32, line string) bool {
	if line == "" {
		return false
	}
	parts := strings.Fields(line)
	cmd := strings.ToUpper(parts[0])

	switch cmd {
	case ".EXIT":
		return true
	case ".HELP":
		fmt.Println(shellHelp)
	case ".STATS":
		snap := db.Stats()
		fmt.Printf("puts=%d gets=%d deletes=%d saves=%d loads=%d\n",
			snap.Puts, snap.Gets, snap.Deletes, snap.Saves, snap.Loads)
		fmt.Printf("cache: hits=%d misses=%d evictions=%d\n",
			snap.CacheHits, snap.CacheMisses, snap.CacheEvictions)
		fmt.Printf("flash: pages_erased=%d words_written=%d bytes_read=%d\n",
			snap.PagesErased, snap.WordsWritten, snap.BytesRead)
	case "PUT":
		if len(parts) < 3 {
			fmt.Println("usage: PUT <key> <value>")
			break
		}
		if err := db.Put(parts[1], strings.Join(parts[2:], " ")); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	case "GET":
		if len(parts) != 2 {
			fmt.Println("usage: GET <key>")
			break
		}
		v, err := db.Get(parts[1])
		if err != nil {
			fmt.Printf("error: %v\n", err)
			break
		}
		fmt.Println(v)
	case "DEL":
		if len(parts) != 2 {
			fmt.Println("usage: DEL <key>")
			break
		}
		removed, err := db.Delete(parts[1])
		if err != nil {
			fmt.Printf("error: %v\n", err)
			break
		}
		fmt.Printf("removed: %v\n", removed)
	case "HAS":
		if len(parts) != 2 {
			fmt.Println("usage: HAS <key>")
			break
		}
		fmt.Printf("%v\n", db.Has(parts[1]))
	case "SCAN":
		err := db.ForEach(func(k, v string) error {
			fmt.Printf("  %s = %s\n", k, v)
			return nil
		})
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
	case "SAVE":
		if err := db.SaveToFlash(drv, base); err != nil {
			fmt.Printf("error: %v\n", err)
			break
		}
		if err := persistFlash(ctrl); err != nil {
			fmt.Printf("error: %v\n", err)
			break
		}
		fmt.Println("saved")
	case "LOAD":
		if err := db.LoadFromFlash(drv, base); err != nil {
			fmt.Printf("error: %v\n", err)
			break
		}
		fmt.Printf("loaded %d entries\n", db.Len())
	case "LEN":
		fmt.Printf("%d / %d entries\n", db.Len(), db.Capacity())
	default:
		fmt.Printf("unknown command %s (try .help)\n", cmd)
	}
	return false
}
