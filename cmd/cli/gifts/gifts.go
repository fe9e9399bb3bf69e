package gifts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/wishlyst/giftregistry/cmd/cli/config"
	"github.com/wishlyst/giftregistry/cmd/cli/output"
	"github.com/wishlyst/giftregistry/internal/models"
)

// InitGifts registers the gifts command tree on the root.
func InitGifts(rootCmd *cobra.Command) {
	giftsCmd := &cobra.Command{
		Use:   "gifts",
		Short: "Browse and manage the gift catalog",
	}

	giftsCmd.AddCommand(
		listGiftsCmd(),
		searchGiftsCmd(),
		createGiftCmd(),
		deleteGiftCmd(),
	)

	rootCmd.AddCommand(giftsCmd)
}

func listGiftsCmd() *cobra.Command {
	var asJSON bool
	var holiday, recipient string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gifts in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := config.APIURL() + "/gifts"
			sep := "?"
			if holiday != "" {
				url += sep + "holiday=" + holiday
				sep = "&"
			}
			if recipient != "" {
				url += sep + "recipient=" + recipient
			}

			resp, err := http.Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}

			var gifts []models.Gift
			if err := json.NewDecoder(resp.Body).Decode(&gifts); err != nil {
				return err
			}
			renderGifts(gifts, asJSON)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON instead of a table")
	cmd.Flags().StringVar(&holiday, "holiday", "", "filter by holiday")
	cmd.Flags().StringVar(&recipient, "recipient", "", "filter by recipient")
	return cmd
}

func searchGiftsCmd() *cobra.Command {
	var asJSON bool
	var holiday, recipient string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search gifts by holiday or recipient",
		RunE: func(cmd *cobra.Command, args []string) error {
			if holiday == "" && recipient == "" {
				return fmt.Errorf("at least one of --holiday or --recipient is required")
			}

			payload := map[string]string{"holiday": holiday, "recipient": recipient}
			body, _ := json.Marshal(payload)
			resp, err := http.Post(config.APIURL()+"/gifts/search", "application/json", bytes.NewBuffer(body))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}

			var gifts []models.Gift
			if err := json.NewDecoder(resp.Body).Decode(&gifts); err != nil {
				return err
			}
			renderGifts(gifts, asJSON)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON instead of a table")
	cmd.Flags().StringVar(&holiday, "holiday", "", "holiday to search for")
	cmd.Flags().StringVar(&recipient, "recipient", "", "recipient to search for")
	return cmd
}

func createGiftCmd() *cobra.Command {
	var name, price, holiday, recipient, description, link, image string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a gift to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			payload := map[string]string{
				"name":        name,
				"price":       price,
				"holiday":     holiday,
				"recipient":   recipient,
				"description": description,
				"link":        link,
				"image":       image,
			}
			body, _ := json.Marshal(payload)

			req, _ := http.NewRequest("POST", config.APIURL()+"/gifts", bytes.NewBuffer(body))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			b, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusCreated {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}

			var out any
			json.Unmarshal(b, &out)
			pretty, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(pretty))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "gift name")
	cmd.Flags().StringVar(&price, "price", "", "price")
	cmd.Flags().StringVar(&holiday, "holiday", "", "holiday")
	cmd.Flags().StringVar(&recipient, "recipient", "", "recipient")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&link, "link", "", "product link")
	cmd.Flags().StringVar(&image, "image", "", "image URL")
	return cmd
}

func deleteGiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a gift from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.ReadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			req, _ := http.NewRequest("DELETE", config.APIURL()+"/gifts/"+args[0], nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusNoContent {
				b, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}
			fmt.Println("Gift deleted")
			return nil
		},
	}
}

func renderGifts(gifts []models.Gift, asJSON bool) {
	if asJSON {
		b, _ := json.MarshalIndent(gifts, "", "  ")
		fmt.Println(string(b))
		return
	}

	rows := make([][]interface{}, 0, len(gifts))
	for _, g := range gifts {
		rows = append(rows, []interface{}{g.ID, g.Name, g.Price, g.Holiday, g.Recipient})
	}
	output.RenderTable([]string{"ID", "Name", "Price", "Holiday", "Recipient"}, rows)
}
