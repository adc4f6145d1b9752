// Package main provides the entry point for the qrguard CLI.
//
// qrguard checks QR codes for phishing, malware and scams before you open
// them. It reads a code from a camera, an image file or pasted text, asks
// Gemini for a structured risk verdict and prints it.
//
// Usage:
//
//	qrguard scan <text>
//	qrguard scan --file <image>
//	qrguard scan --camera
//
// See --help for all available options.
package main

// main is the entry point for qrguard.
func main() {
	Execute()
}
