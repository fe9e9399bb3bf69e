package main

import (
	"fmt"
	"os"

	"github.com/wishlyst/giftregistry/cmd/cli/auth"
	"github.com/wishlyst/giftregistry/cmd/cli/gifts"
	"github.com/wishlyst/giftregistry/cmd/cli/lists"
	"github.com/wishlyst/giftregistry/cmd/cli/root"
)

func main() {
	auth.InitAuth(root.GetRoot())
	gifts.InitGifts(root.GetRoot())
	lists.InitLists(root.GetRoot())

	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
