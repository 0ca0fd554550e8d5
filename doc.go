// Package tri renders one colored triangle into a window surface, with an
// optional immediate-mode diagnostics overlay drawn on top.
//
// # Overview
//
// State is the single owner of every GPU object: the presentation chain,
// the render pipeline, the geometry buffers and the overlay. It is driven
// by a host event loop on one thread:
//
//	for !win.ShouldClose() {
//		for _, ev := range win.PollEvents() {
//			st.Input(ev)
//		}
//		st.Update()
//		if err := st.Render(); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Frames
//
// Render acquires the next image, records the geometry pass, records the
// overlay pass when the overlay is shown, submits both in one command
// buffer and presents. Frames the surface cannot provide in time are
// skipped without error. A failing overlay drops only the overlay pass;
// the triangle is still drawn.
//
// # Resizing
//
// Resize events rebuild the presentation chain synchronously, so no frame
// is rendered at a stale size. The pipeline depends only on the surface
// format and survives resizes. A zero-sized (minimized) window suspends
// rendering until it has an area again.
//
// # Logging
//
// tri is silent by default. SetLogger installs a log/slog logger for tri and
// its sub-packages.
package tri
