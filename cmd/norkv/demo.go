package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/norkv/norkv/pkg/codec"
	"github.com/norkv/norkv/pkg/flash"
	"github.com/norkv/norkv/pkg/store"
)

// newDemoCommand builds the demo subcommand. The flow mirrors a firmware
// boot cycle: load whatever the flash region holds, mutate a few entries,
// save, then prove the image survives by reloading into a fresh store.
func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "run the load/mutate/save/reload demo cycle",
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

			db, err := store.New[uint32, uint32](cfg, codec.Uint32{}, codec.Uint32{})
			if err != nil {
				return err
			}
			drv, err := flash.NewDriver(ctrl, geo, flash.WithCollector(db.Collector()))
			if err != nil {
				return err
			}

			fmt.Println("attempting to load from flash...")
			if err := db.LoadFromFlash(drv, cfg.FlashBaseOffset); err != nil {
				fmt.Printf("no existing data or error loading: %v\n", err)
			} else {
				fmt.Printf("loaded %d entries from flash\n", db.Len())
				printAll(db)
			}

			fmt.Println("adding new data...")
			db.Put(1, 100)
			db.Put(2, 200)
			db.Put(3, 300)

			// Increment an existing value through a read-modify-write
			if v, err := db.Get(1); err == nil {
				db.Put(1, v+1)
			}
			fmt.Printf("database now has %d entries\n", db.Len())

			fmt.Println("saving to flash...")
			if err := db.SaveToFlash(drv, cfg.FlashBaseOffset); err != nil {
				return fmt.Errorf("failed to save to flash: %w", err)
			}
			if err := persistFlash(ctrl); err != nil {
				return err
			}

			// Reconstruct from flash into a fresh store, as after a power cycle
			fresh, err := store.New[uint32, uint32](cfg, codec.Uint32{}, codec.Uint32{})
			if err != nil {
				return err
			}
			if err := fresh.LoadFromFlash(drv, cfg.FlashBaseOffset); err != nil {
				return fmt.Errorf("failed to reload: %w", err)
			}
			fmt.Printf("reloaded %d entries into a fresh store:\n", fresh.Len())
			printAll(fresh)

			fmt.Println("complete")
			return nil
		},
	}
}

func printAll(db *store.Store[uint32, uint32]) {
	db.ForEach(func(k, v uint32) error {
		fmt.Printf("  key %d: value %d\n", k, v)
		return nil
	})
}
