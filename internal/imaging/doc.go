// Package imaging implements the pixel-level transforms of the converter.
//
// Every operation takes a standard image.Image and returns a freshly
// allocated *image.NRGBA whose bounds start at (0,0). Inputs are never
// modified, so a decoded image may be shared between several operations
// (and is, through ImageCache).
//
// # Operations
//
// Per-pixel remaps keep the input dimensions:
//   - Grayscale, Invert, HueRotate, Blur
//   - Threshold and CreateMask, which only ever emit opaque black or white
//
// Geometry:
//   - Rotate uses inverse mapping with nearest-neighbour sampling; the output
//     grows to the rotated bounding box and uncovered pixels are transparent
//
// Compositing operands must have equal dimensions:
//   - Add (saturating) and BitwiseAnd return an error matching
//     ErrDimensionMismatch otherwise
//   - ResizeFrom and TransparentOverlay move pixels between coordinate
//     spaces of different sizes without ever writing out of range
//   - Composite chains the above into a masked logo overlay
//
// Inspection reads pixels without producing an image:
//   - SampleColor and SampleColors report hex, RGB, RGBA and HSL values
//   - DominantColors ranks quantized colors by share of the opaque pixels
//
// # Codec
//
// Decoding and encoding are delegated to github.com/disintegration/imaging.
// PNG, JPEG and GIF decoders come from the standard library; BMP, TIFF and
// WebP are registered from golang.org/x/image. Output is PNG or JPEG.
//
// # Errors
//
// Decode returns the *fs.PathError from os.Open unchanged when a file cannot
// be opened, and a *DecodeError when it opens but is not a decodable image.
package imaging
