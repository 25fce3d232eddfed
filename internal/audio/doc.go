// Package audio decodes synthesized speech into float32 clips and plays
// them through the system sound device using oto/v3. A voice track carries
// narration, one clip at a time, while short sound effects are mixed on top.
package audio
