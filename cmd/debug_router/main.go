package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"shaper-sync/core/config"
	"shaper-sync/core/routeros"
	"shaper-sync/feature/dhcp"
	"shaper-sync/feature/hotspot"
	"shaper-sync/feature/pppoe"
)

func main() {
	name := flag.String("router", "", "router name from the routers file")
	flag.Parse()

	// Load config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	routers, err := config.LoadRouters(cfg.Sync.RoutersFile)
	if err != nil {
		log.Fatal(err)
	}
	router, ok := routers.Router(*name)
	if !ok {
		log.Fatalf("router %q not found in %s", *name, cfg.Sync.RoutersFile)
	}

	ctx := context.Background()
	session, err := routeros.NewDialer().Dial(ctx, routeros.Target{
		Name:               router.Name,
		Address:            router.Address,
		Port:               router.Port,
		Username:           router.Username,
		Password:           router.Password,
		TLS:                router.TLS,
		InsecureSkipVerify: cfg.Sync.TLSSkipVerify,
		Timeout:            cfg.Sync.DialTimeout(),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, path := range []string{
		pppoe.PathSecret, pppoe.PathActive, pppoe.PathProfile,
		hotspot.PathActive,
		dhcp.PathLease,
	} {
		fmt.Printf("=== %s ===\n", path)
		rows, err := session.FetchResource(ctx, path, "")
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Printf("rows: %d\n", len(rows))
		if err := enc.Encode(rows); err != nil {
			log.Fatal(err)
		}
	}
}
