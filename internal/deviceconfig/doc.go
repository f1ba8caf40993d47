// Package deviceconfig reads and edits the configuration of a Smartap
// device over its local HTTP API.
//
// The device answers GET / with a JSON object followed by stray HTML, and
// accepts form-encoded POSTs for three areas:
//   - Diverter: which outlets open on each button press (3-bit bitmask per press)
//   - Server: hostname and port the device connects to
//   - WiFi: the network to join
//
// A Draft is the inspector's editable view of one device: entries write
// into Draft.Config and Draft.Networks, FieldErrors maps problems to entry
// ids, and Build turns the changed sections into a ConfigUpdate.
//
//	client := deviceconfig.NewClient("http://192.168.4.16:80")
//	current, err := client.GetConfiguration(ctx)
//	if err != nil {
//	    return err
//	}
//	draft := deviceconfig.NewDraft(current)
//	draft.Config.Port = 443
//	err = client.Apply(ctx, draft)
//
// # Error Handling
//
// Device I/O fails with *DeviceError. Timeouts, refused connections and
// 5xx responses are retried with exponential backoff; use IsRetryable and
// the Is* helpers to classify, and ShortMessage for a status line.
package deviceconfig
