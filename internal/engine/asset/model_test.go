package asset

import (
	"encoding/binary"
	"fmt"
	"image"
	gomath "math"
	"strings"
	"testing"

	"github.com/Faultbox/asgard/internal/engine/gfx"
	"github.com/Faultbox/asgard/internal/engine/picking"
	"github.com/Faultbox/asgard/pkg/math"
)

// stubFetcher completes every fetch synchronously from in-memory
// tables, so tests control exactly when payloads become visible (the
// model only applies completions at the next update).
type stubFetcher struct {
	binaries map[string][]byte
	texts    map[string]string
	images   map[string]*image.RGBA
	fail     map[string]error
}

func (f *stubFetcher) FetchBinary(path string, done func([]byte, error)) {
	if err, ok := f.fail[path]; ok {
		done(nil, err)
		return
	}
	data, ok := f.binaries[path]
	if !ok {
		done(nil, fmt.Errorf("no stub data for %s", path))
		return
	}
	done(data, nil)
}

func (f *stubFetcher) FetchText(path string, done func(string, error)) {
	if err, ok := f.fail[path]; ok {
		done("", err)
		return
	}
	text, ok := f.texts[path]
	if !ok {
		done("", fmt.Errorf("no stub text for %s", path))
		return
	}
	done(text, nil)
}

func (f *stubFetcher) FetchImage(path string, done func(*image.RGBA, error)) {
	if err, ok := f.fail[path]; ok {
		done(nil, err)
		return
	}
	img, ok := f.images[path]
	if !ok {
		done(nil, fmt.Errorf("no stub image for %s", path))
		return
	}
	done(img, nil)
}

// heldFetcher completes buffers and shaders immediately but parks
// image completions until the test releases them one at a time, so
// load progress can be observed mid-flight.
type heldFetcher struct {
	stubFetcher
	held []func()
}

func (f *heldFetcher) FetchImage(path string, done func(*image.RGBA, error)) {
	img := f.images[path]
	f.held = append(f.held, func() { done(img, nil) })
}

func (f *heldFetcher) release() {
	if len(f.held) == 0 {
		return
	}
	fn := f.held[0]
	f.held = f.held[1:]
	fn()
}

func floatBytes(vals ...float32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], gomath.Float32bits(v))
	}
	return buf
}

func mustModel(t *testing.T, descJSON string, opts Options) *Model {
	t.Helper()
	if opts.Fetcher == nil {
		opts.Fetcher = &stubFetcher{}
	}
	if opts.Device == nil {
		opts.Device = gfx.NewNullDevice()
	}
	m, err := LoadModel([]byte(descJSON), opts)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	return m
}

// tick runs n updates and fails the test on any update error.
func tick(t *testing.T, m *Model, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := m.Update(FrameState{}); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
}

func TestZeroResourceModelLoadsInOneTickAfterParse(t *testing.T) {
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {}}
	}`, Options{})

	if m.Status() != StatusNeedsLoad {
		t.Fatalf("status before first update = %v, want %v", m.Status(), StatusNeedsLoad)
	}
	tick(t, m, 1)
	if m.Status() != StatusLoading {
		t.Fatalf("status after parse tick = %v, want %v", m.Status(), StatusLoading)
	}
	tick(t, m, 1)
	if m.Status() != StatusLoaded {
		t.Fatalf("status after second tick = %v, want %v", m.Status(), StatusLoaded)
	}
}

func TestOnReadyFiresOnce(t *testing.T) {
	readies := 0
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {}}
	}`, Options{OnReady: func(*Model) { readies++ }})

	tick(t, m, 5)
	if readies != 1 {
		t.Errorf("OnReady fired %d times, want 1", readies)
	}
}

func TestProgramsCreatedOnePerTick(t *testing.T) {
	fetcher := &stubFetcher{texts: map[string]string{
		"vs.glsl": "void main() {}",
		"fs.glsl": "void main() {}",
	}}
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {}},
		"shaders": {
			"vs": {"uri": "vs.glsl", "type": 35633},
			"fs": {"uri": "fs.glsl", "type": 35632}
		},
		"programs": {
			"p0": {"vertexShader": "vs", "fragmentShader": "fs", "attributes": ["a_position"]},
			"p1": {"vertexShader": "vs", "fragmentShader": "fs", "attributes": ["a_position"]},
			"p2": {"vertexShader": "vs", "fragmentShader": "fs", "attributes": ["a_position"]}
		}
	}`, Options{Fetcher: fetcher})

	tick(t, m, 1) // parse, shader fetches complete
	for i, want := range []int{1, 2, 3} {
		tick(t, m, 1)
		if got := len(m.programs); got != want {
			t.Fatalf("after tick %d: %d programs linked, want %d", i+2, got, want)
		}
	}
	if m.Status() != StatusLoaded {
		t.Errorf("status = %v, want %v", m.Status(), StatusLoaded)
	}
}

func TestTexturesCreatedOnePerTick(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	fetcher := &stubFetcher{images: map[string]*image.RGBA{
		"a.png": img,
		"b.png": img,
	}}
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {}},
		"images": {
			"imgA": {"uri": "a.png"},
			"imgB": {"uri": "b.png"}
		},
		"samplers": {"default": {}},
		"textures": {
			"texA": {"source": "imgA", "sampler": "default"},
			"texB": {"source": "imgB", "sampler": "default"}
		}
	}`, Options{Fetcher: fetcher})

	tick(t, m, 1) // parse, image fetches complete
	tick(t, m, 1)
	if got := len(m.textures); got != 1 {
		t.Fatalf("after first creation tick: %d textures, want 1", got)
	}
	tick(t, m, 1)
	if got := len(m.textures); got != 2 {
		t.Fatalf("after second creation tick: %d textures, want 2", got)
	}
	if m.Status() != StatusLoaded {
		t.Errorf("status = %v, want %v", m.Status(), StatusLoaded)
	}
}

func TestReadinessPredicatesNeverRegress(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	fetcher := &heldFetcher{stubFetcher: stubFetcher{
		binaries: map[string][]byte{"geom.bin": floatBytes(0, 0, 0, 1, 0, 0, 0, 1, 0)},
		images:   map[string]*image.RGBA{"a.png": img, "b.png": img},
	}}
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {}},
		"buffers": {"geom": {"uri": "geom.bin", "byteLength": 36}},
		"bufferViews": {"bv": {"buffer": "geom", "byteLength": 36, "target": 34962}},
		"images": {
			"imgA": {"uri": "a.png"},
			"imgB": {"uri": "b.png"}
		},
		"samplers": {"default": {}},
		"textures": {
			"texA": {"source": "imgA", "sampler": "default"},
			"texB": {"source": "imgB", "sampler": "default"}
		}
	}`, Options{Fetcher: fetcher})

	var sawLoadsDone, sawCreationDone bool
	sample := func(tickNo int) {
		loads, creation := true, true
		if m.load != nil {
			loads = m.load.pendingLoadsDone()
			creation = m.load.resourceCreationDone()
		} else if m.Status() != StatusLoaded {
			t.Fatalf("tick %d: no load state while not loaded", tickNo)
		}
		if sawLoadsDone && !loads {
			t.Fatalf("tick %d: pendingLoadsDone regressed to false", tickNo)
		}
		if sawCreationDone && !creation {
			t.Fatalf("tick %d: resourceCreationDone regressed to false", tickNo)
		}
		sawLoadsDone = sawLoadsDone || loads
		sawCreationDone = sawCreationDone || creation
	}

	tick(t, m, 1) // parse: buffer completes, both images held back
	for i := 0; i < 10; i++ {
		if i == 2 || i == 5 {
			fetcher.release()
		}
		tick(t, m, 1)
		sample(i)
		if i < 5 && sawLoadsDone {
			t.Fatalf("tick %d: pendingLoadsDone true with an image still held", i)
		}
	}

	if m.Status() != StatusLoaded {
		t.Fatalf("status = %v, want %v", m.Status(), StatusLoaded)
	}
	if !sawLoadsDone || !sawCreationDone {
		t.Error("predicates never became true across the load")
	}
}

func TestFailedShaderFetchIsFatalAndReportedOnce(t *testing.T) {
	fetcher := &stubFetcher{
		texts: map[string]string{"fs.glsl": "void main() {}"},
		fail:  map[string]error{"vs.glsl": fmt.Errorf("connection refused")},
	}
	var reported []error
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {}},
		"shaders": {
			"vs": {"uri": "vs.glsl", "type": 35633},
			"fs": {"uri": "fs.glsl", "type": 35632}
		},
		"programs": {
			"p0": {"vertexShader": "vs", "fragmentShader": "fs", "attributes": []}
		}
	}`, Options{Fetcher: fetcher, OnError: func(err error) { reported = append(reported, err) }})

	m.Update(FrameState{})
	for i := 0; i < 10; i++ {
		m.Update(FrameState{FrameNumber: uint64(i + 1)})
	}

	if len(reported) != 1 {
		t.Fatalf("error reported %d times, want exactly 1", len(reported))
	}
	msg := reported[0].Error()
	if !strings.Contains(msg, "shader") || !strings.Contains(msg, "vs.glsl") {
		t.Errorf("error %q does not name the shader and its path", msg)
	}
	if m.Status() != StatusLoading {
		t.Errorf("status after failure = %v, want it to stall in %v", m.Status(), StatusLoading)
	}
}

func TestDiamondNodeComputedOncePerFrame(t *testing.T) {
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {
			"root": {"children": ["a", "b"]},
			"a": {"children": ["shared"]},
			"b": {"children": ["shared"]},
			"shared": {}
		}
	}`, Options{})

	tick(t, m, 2)
	if m.Status() != StatusLoaded {
		t.Fatalf("status = %v, want %v", m.Status(), StatusLoaded)
	}

	shared := m.nodes[m.nodeIndex["shared"]]
	if got := len(shared.parents); got != 2 {
		t.Fatalf("shared node has %d parents, want 2", got)
	}

	// Move the root and update; the shared node must appear exactly
	// once in the visit list even though two paths reach it.
	root, err := m.NodeByName("root")
	if err != nil {
		t.Fatalf("NodeByName: %v", err)
	}
	root.SetTranslation(math.Vec3{X: 5})
	tick(t, m, 1)

	visits := 0
	for _, idx := range m.visitList {
		if idx == m.nodeIndex["shared"] {
			visits++
		}
	}
	if visits != 1 {
		t.Errorf("shared node visited %d times in one frame, want 1", visits)
	}
	if got := len(m.visitList); got != 4 {
		t.Errorf("visited %d nodes, want 4", got)
	}

	tr := m.nodes[m.nodeIndex["shared"]].transformToRoot
	if tr[12] != 5 {
		t.Errorf("shared node translation-to-root x = %v, want 5", tr[12])
	}
}

func TestDirtyFlagsClearedAfterUpdate(t *testing.T) {
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {
			"root": {"children": ["child"]},
			"child": {}
		}
	}`, Options{})

	tick(t, m, 2)
	root, err := m.NodeByName("root")
	if err != nil {
		t.Fatalf("NodeByName: %v", err)
	}
	root.SetTranslation(math.Vec3{Y: 3})
	tick(t, m, 1)

	for i := range m.nodes {
		if m.nodes[i].dirty || m.nodes[i].anyAncestorDirty {
			t.Errorf("node %q still dirty after update", m.nodes[i].name)
		}
	}
	child := m.nodes[m.nodeIndex["child"]]
	if child.transformToRoot[13] != 3 {
		t.Errorf("child translation-to-root y = %v, want 3", child.transformToRoot[13])
	}
}

func TestBoundingSphereFromUnitCube(t *testing.T) {
	fetcher := &stubFetcher{binaries: map[string][]byte{
		"geom.bin": floatBytes(
			-1, -1, -1,
			1, 1, 1,
			0, 0, 0,
		),
	}}
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {"meshes": ["cube"]}},
		"meshes": {"cube": {"primitives": [
			{"attributes": {"POSITION": "pos"}, "mode": 4}
		]}},
		"accessors": {"pos": {
			"bufferView": "bv", "componentType": 5126, "count": 3, "type": "VEC3",
			"min": [-1, -1, -1], "max": [1, 1, 1]
		}},
		"bufferViews": {"bv": {"buffer": "geom", "byteLength": 36, "target": 34962}},
		"buffers": {"geom": {"uri": "geom.bin", "byteLength": 36}}
	}`, Options{Fetcher: fetcher})

	tick(t, m, 2)
	if m.Status() != StatusLoaded {
		t.Fatalf("status = %v, want %v", m.Status(), StatusLoaded)
	}

	sphere := m.BoundingSphere()
	if sphere.Center != (math.Vec3{}) {
		t.Errorf("bound center = %+v, want origin", sphere.Center)
	}
	want := float32(gomath.Sqrt(3))
	if diff := sphere.Radius - want; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("bound radius = %v, want %v", sphere.Radius, want)
	}
}

func TestIdentitySkeletonYieldsIdentityJointMatrices(t *testing.T) {
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["skinned", "joint0"]}},
		"nodes": {
			"skinned": {"instanceSkin": {"skin": "s", "skeletons": ["joint0"], "meshes": []}},
			"joint0": {"jointId": "j0"}
		},
		"skins": {"s": {"jointNames": ["j0"]}}
	}`, Options{})

	tick(t, m, 2)
	if m.Status() != StatusLoaded {
		t.Fatalf("status = %v, want %v", m.Status(), StatusLoaded)
	}
	if len(m.skins) != 1 {
		t.Fatalf("resolved %d skins, want 1", len(m.skins))
	}
	for i, jm := range m.skins[0].jointMatrices {
		if !jm.IsIdentity() {
			t.Errorf("joint matrix %d = %v, want identity", i, jm)
		}
	}
}

func TestMovedJointRecomputesJointMatrices(t *testing.T) {
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["skinned", "joint0"]}},
		"nodes": {
			"skinned": {"instanceSkin": {"skin": "s", "skeletons": ["joint0"], "meshes": []}},
			"joint0": {"jointId": "j0"}
		},
		"skins": {"s": {"jointNames": ["j0"]}}
	}`, Options{})

	tick(t, m, 2)
	if m.Status() != StatusLoaded {
		t.Fatalf("status = %v, want %v", m.Status(), StatusLoaded)
	}

	joint, err := m.NodeByName("joint0")
	if err != nil {
		t.Fatalf("NodeByName: %v", err)
	}
	joint.SetTranslation(math.Vec3{X: 2})
	tick(t, m, 1)

	jm := m.skins[0].jointMatrices[0]
	if jm[12] != 2 {
		t.Errorf("joint matrix x translation = %v, want 2 after moving the joint", jm[12])
	}
}

func TestMissingJointIsMalformedAsset(t *testing.T) {
	var reported []error
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["skinned", "joint0"]}},
		"nodes": {
			"skinned": {"instanceSkin": {"skin": "s", "skeletons": ["joint0"], "meshes": []}},
			"joint0": {"jointId": "j0"}
		},
		"skins": {"s": {"jointNames": ["nope"]}}
	}`, Options{OnError: func(err error) { reported = append(reported, err) }})

	m.Update(FrameState{})
	for i := 0; i < 5; i++ {
		m.Update(FrameState{FrameNumber: uint64(i + 1)})
	}
	if len(reported) != 1 {
		t.Fatalf("error reported %d times, want 1", len(reported))
	}
	if !strings.Contains(reported[0].Error(), "nope") {
		t.Errorf("error %q does not name the missing joint", reported[0])
	}
	if m.Status() == StatusLoaded {
		t.Error("model loaded despite unresolvable joint")
	}
}

func TestTranslationChannelWritesOnlyTranslation(t *testing.T) {
	fetcher := &stubFetcher{binaries: map[string][]byte{
		"anim.bin": floatBytes(
			0, 1, // keyframe times
			0, 0, 0,
			2, 0, 0,
		),
	}}
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {"rotation": [0, 0, 1, 0], "scale": [1, 1, 1], "translation": [0, 0, 0]}},
		"buffers": {"anim": {"uri": "anim.bin", "byteLength": 32}},
		"bufferViews": {
			"bvIn": {"buffer": "anim", "byteLength": 8},
			"bvOut": {"buffer": "anim", "byteOffset": 8, "byteLength": 24}
		},
		"accessors": {
			"accIn": {"bufferView": "bvIn", "componentType": 5126, "count": 2, "type": "SCALAR"},
			"accOut": {"bufferView": "bvOut", "componentType": 5126, "count": 2, "type": "VEC3"}
		},
		"animations": {"slide": {
			"channels": [{"sampler": "s0", "target": {"id": "root", "path": "translation"}}],
			"parameters": {"TIME": "accIn", "TRANS": "accOut"},
			"samplers": {"s0": {"input": "TIME", "output": "TRANS", "interpolation": "LINEAR"}}
		}}
	}`, Options{Fetcher: fetcher})

	tick(t, m, 2)
	if m.Status() != StatusLoaded {
		t.Fatalf("status = %v, want %v", m.Status(), StatusLoaded)
	}
	clip := m.Clip("slide")
	if clip == nil {
		t.Fatal("clip slide not built")
	}
	if clip.Start != 0 || clip.End != 1 {
		t.Fatalf("clip range [%v, %v], want [0, 1]", clip.Start, clip.End)
	}

	if err := m.PlayClip("slide", 10, false); err != nil {
		t.Fatalf("PlayClip: %v", err)
	}
	if err := m.Update(FrameState{FrameNumber: 100, Time: 10.5}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	root := m.nodes[m.nodeIndex["root"]]
	if diff := root.translation.X - 1; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("animated translation x = %v, want 1", root.translation.X)
	}
	if root.translation.Y != 0 || root.translation.Z != 0 {
		t.Errorf("animated translation = %+v, want movement on x only", root.translation)
	}
	if root.rotation != math.QuatIdentity() {
		t.Errorf("rotation changed to %+v, want identity", root.rotation)
	}
	if root.scale != (math.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("scale changed to %+v, want unit", root.scale)
	}
}

func TestDestroyReleasesEveryHandleOnce(t *testing.T) {
	device := gfx.NewNullDevice()
	fetcher := &stubFetcher{binaries: map[string][]byte{
		"geom.bin": floatBytes(0, 0, 0, 1, 1, 1, 2, 2, 2),
	}}
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {"meshes": ["tri"]}},
		"meshes": {"tri": {"primitives": [
			{"attributes": {"POSITION": "pos"}, "mode": 4}
		]}},
		"accessors": {"pos": {
			"bufferView": "bv", "componentType": 5126, "count": 3, "type": "VEC3"
		}},
		"bufferViews": {"bv": {"buffer": "geom", "byteLength": 36, "target": 34962}},
		"buffers": {"geom": {"uri": "geom.bin", "byteLength": 36}}
	}`, Options{Fetcher: fetcher, Device: device})

	tick(t, m, 2)
	if m.Status() != StatusLoaded {
		t.Fatalf("status = %v, want %v", m.Status(), StatusLoaded)
	}
	if device.Created == 0 {
		t.Fatal("no GPU handles were created")
	}

	m.Destroy()
	if device.Live() != 0 {
		t.Errorf("%d handles still live after Destroy", device.Live())
	}
	m.Destroy() // second destroy must be a no-op
	if device.Destroyed != device.Created {
		t.Errorf("destroyed %d handles for %d created", device.Destroyed, device.Created)
	}
	if err := m.Update(FrameState{}); err != ErrDestroyed {
		t.Errorf("Update after Destroy = %v, want ErrDestroyed", err)
	}
}

func TestNodeLookupBeforeLoadFails(t *testing.T) {
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {}}
	}`, Options{})

	if _, err := m.NodeByName("root"); err != ErrNotLoaded {
		t.Errorf("NodeByName before load = %v, want ErrNotLoaded", err)
	}
	tick(t, m, 2)
	if _, err := m.NodeByName("root"); err != nil {
		t.Errorf("NodeByName after load: %v", err)
	}
	if _, err := m.NodeByName("ghost"); err == nil {
		t.Error("lookup of undefined node succeeded")
	}
}

func TestPickCommandsMirrorDrawCommands(t *testing.T) {
	fetcher := &stubFetcher{binaries: map[string][]byte{
		"geom.bin": floatBytes(0, 0, 0, 1, 0, 0, 0, 1, 0),
	}}
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {"meshes": ["tri"]}},
		"meshes": {"tri": {"primitives": [
			{"attributes": {"POSITION": "pos"}, "mode": 4}
		]}},
		"accessors": {"pos": {
			"bufferView": "bv", "componentType": 5126, "count": 3, "type": "VEC3"
		}},
		"bufferViews": {"bv": {"buffer": "geom", "byteLength": 36, "target": 34962}},
		"buffers": {"geom": {"uri": "geom.bin", "byteLength": 36}}
	}`, Options{Fetcher: fetcher, PickAllocator: picking.NewAllocator()})

	tick(t, m, 2)
	cmds := m.Commands()
	if len(cmds) != 2 {
		t.Fatalf("built %d commands, want draw + pick pair", len(cmds))
	}
	var pick *gfx.DrawCommand
	for _, cmd := range cmds {
		if cmd.PickID != 0 {
			pick = cmd
		}
	}
	if pick == nil {
		t.Fatal("no pick command was built")
	}
	if pick.PickID != 1 {
		t.Errorf("pick id = %d, want first allocation 1", pick.PickID)
	}

	// Both variants follow the node's transform.
	root, err := m.NodeByName("root")
	if err != nil {
		t.Fatalf("NodeByName: %v", err)
	}
	root.SetTranslation(math.Vec3{X: 7})
	tick(t, m, 1)
	for _, cmd := range cmds {
		if cmd.ModelMatrix[12] != 7 {
			t.Errorf("command model matrix x = %v, want 7", cmd.ModelMatrix[12])
		}
	}
}

func TestModelMatrixScalesBounds(t *testing.T) {
	fetcher := &stubFetcher{binaries: map[string][]byte{
		"geom.bin": floatBytes(-1, -1, -1, 1, 1, 1, 0, 0, 0),
	}}
	m := mustModel(t, `{
		"scene": "main",
		"scenes": {"main": {"nodes": ["root"]}},
		"nodes": {"root": {"meshes": ["cube"]}},
		"meshes": {"cube": {"primitives": [
			{"attributes": {"POSITION": "pos"}, "mode": 4}
		]}},
		"accessors": {"pos": {
			"bufferView": "bv", "componentType": 5126, "count": 3, "type": "VEC3",
			"min": [-1, -1, -1], "max": [1, 1, 1]
		}},
		"bufferViews": {"bv": {"buffer": "geom", "byteLength": 36, "target": 34962}},
		"buffers": {"geom": {"uri": "geom.bin", "byteLength": 36}}
	}`, Options{Fetcher: fetcher})

	tick(t, m, 2)
	base := m.BoundingSphere().Radius

	m.SetScale(2)
	tick(t, m, 1)
	scaled := m.BoundingSphere().Radius
	if diff := scaled - 2*base; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("radius after 2x scale = %v, want %v", scaled, 2*base)
	}
}
