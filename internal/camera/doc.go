// Package camera interfaces with attached capture devices over USB.
//
// It provides device enumeration with identity resolution, a recursive file
// walk over the camera's folder tree, and single-file retrieval. The low-level
// transport shells out to gphoto2 behind a small interface so higher layers
// and tests never touch a real device. Parsers live here to keep transport
// quirks isolated from pipeline code.
//
// Device access is strictly serialized: a camera session is not safe for
// concurrent use, so every stateful operation acquires the gateway before
// opening the device and releases it on all exit paths.
package camera
