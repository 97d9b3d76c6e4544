package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ruteri/memory-registry-backend/api/clients"
	"github.com/ruteri/memory-registry-backend/cmd/flags"
	"github.com/ruteri/memory-registry-backend/common"
	"github.com/ruteri/memory-registry-backend/httpserver"
	"github.com/ruteri/memory-registry-backend/interfaces"
)

var hashFlag = &cli.StringFlag{
	Name:     "content-hash",
	Required: true,
	Usage:    "SHA-256 content hash as a 64-char hex string",
}

func main() {
	app := &cli.App{
		Name:    "registry-client",
		Usage:   "Interact with a memory registry server",
		Version: common.Version,
		Flags: []cli.Flag{
			flags.ServerAddrFlag,
			flags.OwnerFlag,
		},
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create the owner's registry",
				Action: func(cCtx *cli.Context) error {
					client, owner, err := setup(cCtx)
					if err != nil {
						return err
					}
					if err := client.CreateRegistry(owner); err != nil {
						return err
					}
					fmt.Println("registry created")
					return nil
				},
			},
			{
				Name:  "append",
				Usage: "Register a content hash",
				Flags: []cli.Flag{
					hashFlag,
					&cli.UintFlag{Name: "memory-type", Usage: "memory type (0-3)"},
					&cli.UintFlag{Name: "importance-tier", Usage: "importance tier (0-2)"},
					&cli.Uint64Flag{Name: "memory-id", Usage: "external correlation id"},
					&cli.BoolFlag{Name: "encrypted", Usage: "content is encrypted at rest"},
				},
				Action: func(cCtx *cli.Context) error {
					client, owner, err := setup(cCtx)
					if err != nil {
						return err
					}
					err = client.AppendEntry(owner, httpserver.AppendRequest{
						ContentHash:    cCtx.String(hashFlag.Name),
						MemoryType:     uint8(cCtx.Uint("memory-type")),
						ImportanceTier: uint8(cCtx.Uint("importance-tier")),
						MemoryID:       cCtx.Uint64("memory-id"),
						Encrypted:      cCtx.Bool("encrypted"),
					})
					if err != nil {
						return err
					}
					fmt.Println("entry registered")
					return nil
				},
			},
			{
				Name:  "verify",
				Usage: "Check whether a content hash is registered",
				Flags: []cli.Flag{hashFlag},
				Action: func(cCtx *cli.Context) error {
					client, owner, err := setup(cCtx)
					if err != nil {
						return err
					}
					hash, err := interfaces.NewContentHashFromHex(cCtx.String(hashFlag.Name))
					if err != nil {
						return err
					}
					if err := client.VerifyEntry(owner, hash); err != nil {
						return err
					}
					fmt.Println("registered")
					return nil
				},
			},
			{
				Name:  "info",
				Usage: "Show registry header metadata",
				Action: func(cCtx *cli.Context) error {
					client, owner, err := setup(cCtx)
					if err != nil {
						return err
					}
					info, err := client.RegistryInfo(owner)
					if err != nil {
						return err
					}
					fmt.Printf("authority: %s\nentries: %d\nnonce: %d\ncapacity: %d\n",
						info.Authority, info.EntryCount, info.Nonce, info.Capacity)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(cCtx *cli.Context) (*clients.RegistryClient, interfaces.OwnerID, error) {
	owner, err := interfaces.NewOwnerIDFromHex(cCtx.String(flags.OwnerFlag.Name))
	if err != nil {
		return nil, interfaces.OwnerID{}, err
	}
	return &clients.RegistryClient{ServerAddr: cCtx.String(flags.ServerAddrFlag.Name)}, owner, nil
}
