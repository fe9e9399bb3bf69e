package lists

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

// InitLists registers the lists command tree on the root.
func InitLists(rootCmd *cobra.Command) {
	listsCmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage your gift lists",
	}

	listsCmd.AddCommand(
		listListsCmd(),
		createListCmd(),
		showListCmd(),
		deleteListCmd(),
		saveGiftCmd(),
		removeGiftCmd(),
	)

	rootCmd.AddCommand(listsCmd)
}

// authedDo sends an authenticated request and fails early when no token is
// stored.
func authedDo(method, path string, body []byte) (*http.Response, error) {
	token, err := config.ReadToken()
	if err != nil {
		return nil, fmt.Errorf("please login first")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}
	req, err := http.NewRequest(method, config.APIURL()+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return http.DefaultClient.Do(req)
}

func listListsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show your lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := authedDo("GET", "/lists", nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}

			var lists []models.List
			if err := json.NewDecoder(resp.Body).Decode(&lists); err != nil {
				return err
			}

			if asJSON {
				b, _ := json.MarshalIndent(lists, "", "  ")
				fmt.Println(string(b))
				return nil
			}
			rows := make([][]interface{}, 0, len(lists))
			for _, l := range lists {
				rows = append(rows, []interface{}{l.ID, l.Title, len(l.Gifts)})
			}
			output.RenderTable([]string{"ID", "Title", "Gifts"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON instead of a table")
	return cmd
}

func createListCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("title is required")
			}
			body, _ := json.Marshal(map[string]string{"title": title})
			resp, err := authedDo("POST", "/lists", body)
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

	cmd.Flags().StringVar(&title, "title", "", "list title")
	return cmd
}

func showListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one list with its gifts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := authedDo("GET", "/lists/"+args[0], nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			b, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}

			var out any
			json.Unmarshal(b, &out)
			pretty, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(pretty))
			return nil
		},
	}
}

func deleteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := authedDo("DELETE", "/lists/"+args[0], nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusNoContent {
				b, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}
			fmt.Println("List deleted")
			return nil
		},
	}
}

func saveGiftCmd() *cobra.Command {
	var giftID int

	cmd := &cobra.Command{
		Use:   "save-gift [list-id]",
		Short: "Save a gift into a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if giftID == 0 {
				return fmt.Errorf("--gift is required")
			}
			body, _ := json.Marshal(map[string]int{"gift_id": giftID})
			resp, err := authedDo("POST", "/lists/"+args[0]+"/gifts", body)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			b, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}

			var out any
			json.Unmarshal(b, &out)
			pretty, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(pretty))
			return nil
		},
	}

	cmd.Flags().IntVar(&giftID, "gift", 0, "id of the gift to save")
	return cmd
}

func removeGiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-gift [list-id] [gift-id]",
		Short: "Remove a gift from a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := authedDo("DELETE", "/lists/"+args[0]+"/gifts/"+args[1], nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusNoContent {
				b, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}
			fmt.Println("Gift removed from list")
			return nil
		},
	}
}
