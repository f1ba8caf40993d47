// Package discovery finds Smartap devices on the local network over mDNS.
//
// Devices advertise an "_http._tcp" service under the hostname
// eValve<serial>.local. Scan streams each device once as it answers, which
// the inspector uses to build its selection while the scan is running;
// ScanForDevices and WaitForDevice are blocking conveniences for the CLI.
//
//	scanner := discovery.NewScanner()
//	scanner.Timeout = 5 * time.Second
//	devices, err := scanner.ScanForDevices(ctx)
//
// mDNS needs multicast on the local segment and UDP port 5353 open.
package discovery
