// Package capture produces scan requests from the three input sources:
// manual text, image files, and a live camera.
//
// Camera access is scoped by a Session. A session holds the device stream
// from Start until the first of Capture, Close, or the owning CameraSource
// being closed, and releases it exactly once on every one of those paths.
package capture
