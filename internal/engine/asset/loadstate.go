package asset

import "image"

// stageID identifies one resource-creation stage of a load pass.
type stageID int

const (
	stageBuffers stageID = iota
	stagePrograms
	stageSamplers
	stageTextures
	stageSkins
	stageAnimations
	stageVertexArrays
	stageRenderStates
	stageUniformMaps
	stageNodes
	stageCount
)

func (s stageID) String() string {
	switch s {
	case stageBuffers:
		return "buffers"
	case stagePrograms:
		return "programs"
	case stageSamplers:
		return "samplers"
	case stageTextures:
		return "textures"
	case stageSkins:
		return "skins"
	case stageAnimations:
		return "animations"
	case stageVertexArrays:
		return "vertexArrays"
	case stageRenderStates:
		return "renderStates"
	case stageUniformMaps:
		return "uniformMaps"
	case stageNodes:
		return "nodes"
	default:
		return "unknown"
	}
}

// textureToCreate is one fetched image waiting for GPU upload.
type textureToCreate struct {
	name  string
	image *image.RGBA
}

// loadState tracks one loading pass: counts of in-flight fetches,
// FIFO queues of units awaiting GPU creation, and per-stage one-shot
// completion flags. It exists only while the model is loading and is
// discarded on reaching the loaded state.
//
// The readiness predicates below are pure functions of counters and
// queue lengths; mutation happens in exactly two places: a fetch
// completion decrements its pending counter, and parsing (or an image
// arrival) enqueues a unit for creation. A decrement without a prior
// matching increment is a logic error, not a recoverable condition.
type loadState struct {
	pendingBuffers  int
	pendingShaders  int
	pendingTextures int

	buffersToCreate  []string          // bufferView names, filled at parse
	programsToCreate []string          // program names, filled at parse
	texturesToCreate []textureToCreate // filled as images arrive

	done [stageCount]bool
}

// pendingLoadsDone reports whether every issued fetch has completed.
func (ls *loadState) pendingLoadsDone() bool {
	return ls.pendingBuffers == 0 && ls.pendingShaders == 0 && ls.pendingTextures == 0
}

// buffersReady reports whether all buffer payloads arrived and every
// GPU buffer was created.
func (ls *loadState) buffersReady() bool {
	return ls.pendingBuffers == 0 && len(ls.buffersToCreate) == 0
}

// programsReady reports whether all shader text arrived and every
// program was linked.
func (ls *loadState) programsReady() bool {
	return ls.pendingShaders == 0 && len(ls.programsToCreate) == 0
}

// texturesReady reports whether all images arrived and every texture
// was uploaded.
func (ls *loadState) texturesReady() bool {
	return ls.pendingTextures == 0 && len(ls.texturesToCreate) == 0
}

// resourceCreationDone reports whether every creation queue is drained
// and every intermediate stage has run. The runtime-node stage itself
// is excluded: it is the consumer of this predicate.
func (ls *loadState) resourceCreationDone() bool {
	return len(ls.buffersToCreate) == 0 &&
		len(ls.programsToCreate) == 0 &&
		len(ls.texturesToCreate) == 0 &&
		ls.done[stageSamplers] &&
		ls.done[stageSkins] &&
		ls.done[stageAnimations] &&
		ls.done[stageVertexArrays] &&
		ls.done[stageRenderStates] &&
		ls.done[stageUniformMaps]
}
