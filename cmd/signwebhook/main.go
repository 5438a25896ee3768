// Package main provides signwebhook, a developer tool that signs an order
// payload the way Shopify does and optionally delivers it to a running server.
package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"storefront-bookings/services"
)

const samplePayload = `{"id":"12345","name":"Test Order","email":"test@example.com","customer":{"id":"67890"},"line_items":[{"product_id":"8194931753113","properties":[{"name":"Booking Date","value":"2025-01-15"}]},{"product_id":"8194941190297","properties":[{"name":"Booking Date","value":"2025-01-16"}]}]}`

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	secret    string
	file      string
	sendURL   string
	topic     string
	webhookID string
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "signwebhook",
		Short: "Sign an order webhook payload",
		Long: `signwebhook prints the X-Shopify-Hmac-Sha256 value for a payload.

The payload is read from --file, or from stdin when --file is "-". Without
either, a sample order with two booked dates is used. The secret defaults to
SHOPIFY_WEBHOOK_SECRET. With --send the signed payload is POSTed to the URL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.secret == "" {
				opts.secret = os.Getenv("SHOPIFY_WEBHOOK_SECRET")
			}
			body, err := readPayload(opts.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return run(opts, body, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&opts.secret, "secret", "s", "", "Webhook secret (default $SHOPIFY_WEBHOOK_SECRET)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", `Payload file, "-" for stdin`)
	cmd.Flags().StringVar(&opts.sendURL, "send", "", "POST the signed payload to this URL")
	cmd.Flags().StringVar(&opts.topic, "topic", services.TopicOrderCreated, "X-Shopify-Topic header sent with --send")
	cmd.Flags().StringVar(&opts.webhookID, "webhook-id", "", "X-Shopify-Webhook-Id header sent with --send")

	return cmd
}

func readPayload(file string, stdin io.Reader) ([]byte, error) {
	switch file {
	case "":
		return []byte(samplePayload), nil
	case "-":
		return io.ReadAll(stdin)
	default:
		return os.ReadFile(file)
	}
}

func run(opts options, body []byte, out io.Writer) error {
	sig, err := services.NewSignatureVerifier(opts.secret).Sign(body)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Calculated HMAC: %s\n", sig)

	if opts.sendURL == "" {
		return nil
	}

	req, err := http.NewRequest(http.MethodPost, opts.sendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Hmac-Sha256", sig)
	req.Header.Set("X-Shopify-Topic", opts.topic)
	if opts.webhookID != "" {
		req.Header.Set("X-Shopify-Webhook-Id", opts.webhookID)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Fprintf(out, "%s\n%s\n", resp.Status, respBody)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("server responded %s", resp.Status)
	}
	return nil
}
