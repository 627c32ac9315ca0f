package asset

import (
	"fmt"

	"github.com/Faultbox/asgard/pkg/spline"
)

// targetPath identifies the node property an animation channel writes.
type targetPath int

const (
	pathTranslation targetPath = iota
	pathRotation
	pathScale
	pathMatrix
)

// animChannel routes one sampled curve to one node property. Exactly
// one sampler pointer is set, matching the path; channels are plain
// data dispatched by evaluateChannel, not captured closures.
type animChannel struct {
	node int
	path targetPath
	vec3 *spline.Vec3Sampler
	quat *spline.QuatSampler
	mat  *spline.Mat4Sampler
}

// AnimationClip is one named animation: its channels and the time range
// covered by their keyframes.
type AnimationClip struct {
	Name     string
	Start    float32
	End      float32
	channels []animChannel
}

// Duration returns the clip length in seconds.
func (c *AnimationClip) Duration() float32 {
	return c.End - c.Start
}

// clipPlayback is one active clip on a model.
type clipPlayback struct {
	clip  *AnimationClip
	start float64
	loop  bool
}

// createRuntimeAnimations builds every clip from the descriptor's
// animation table, resolving parameter names through accessors into
// keyframe samplers.
func (m *Model) createRuntimeAnimations() (bool, error) {
	for _, animName := range sortedKeys(m.desc.Animations) {
		anim := m.desc.Animations[animName]
		clip := &AnimationClip{Name: animName}

		for i := range anim.Channels {
			ch, err := m.buildChannel(anim, &anim.Channels[i])
			if err != nil {
				return false, fmt.Errorf("animation %q channel %d: %w", animName, i, err)
			}
			clip.channels = append(clip.channels, ch)

			times := m.channelTimes(ch)
			if len(times) > 0 {
				start, end := spline.Start(times), spline.End(times)
				if len(clip.channels) == 1 {
					clip.Start, clip.End = start, end
				} else {
					if start < clip.Start {
						clip.Start = start
					}
					if end > clip.End {
						clip.End = end
					}
				}
			}
		}
		m.clips[animName] = clip
	}
	return true, nil
}

func (m *Model) channelTimes(ch animChannel) []float32 {
	switch ch.path {
	case pathRotation:
		return ch.quat.Times
	case pathMatrix:
		return ch.mat.Times
	default:
		return ch.vec3.Times
	}
}

// buildChannel resolves one descriptor channel: sampler name to
// input/output parameters, parameters to accessors, accessors to
// keyframe data.
func (m *Model) buildChannel(anim *AnimationDesc, desc *AnimationChannelDesc) (animChannel, error) {
	var ch animChannel

	nodeIdx, ok := m.nodeIndex[desc.Target.ID]
	if !ok {
		return ch, fmt.Errorf("targets undefined node %q", desc.Target.ID)
	}
	ch.node = nodeIdx

	sampler, ok := anim.Samplers[desc.Sampler]
	if !ok {
		return ch, fmt.Errorf("references undefined sampler %q", desc.Sampler)
	}
	inputAcc, ok := anim.Parameters[sampler.Input]
	if !ok {
		return ch, fmt.Errorf("sampler %q: undefined input parameter %q", desc.Sampler, sampler.Input)
	}
	outputAcc, ok := anim.Parameters[sampler.Output]
	if !ok {
		return ch, fmt.Errorf("sampler %q: undefined output parameter %q", desc.Sampler, sampler.Output)
	}

	times, err := m.readScalars(inputAcc)
	if err != nil {
		return ch, err
	}
	interp := spline.Linear
	if sampler.Interpolation == "STEP" {
		interp = spline.Step
	}

	switch desc.Target.Path {
	case "translation":
		ch.path = pathTranslation
	case "rotation":
		ch.path = pathRotation
	case "scale":
		ch.path = pathScale
	case "matrix":
		ch.path = pathMatrix
	default:
		return ch, fmt.Errorf("unknown target path %q", desc.Target.Path)
	}

	switch ch.path {
	case pathRotation:
		values, err := m.readQuats(outputAcc)
		if err != nil {
			return ch, err
		}
		ch.quat = &spline.QuatSampler{Times: times, Values: values, Interp: interp}
	case pathMatrix:
		values, err := m.readMat4s(outputAcc)
		if err != nil {
			return ch, err
		}
		ch.mat = &spline.Mat4Sampler{Times: times, Values: values, Interp: interp}
	default:
		values, err := m.readVec3s(outputAcc)
		if err != nil {
			return ch, err
		}
		ch.vec3 = &spline.Vec3Sampler{Times: times, Values: values, Interp: interp}
	}
	return ch, nil
}

// evaluateChannel samples the channel at local clip time t and writes
// the result into the target node, marking it dirty. TRS writes switch
// a matrix-represented node to TRS form so the untouched properties
// keep their current values.
func (m *Model) evaluateChannel(ch *animChannel, t float32) {
	n := &m.nodes[ch.node]
	switch ch.path {
	case pathTranslation:
		n.useMatrix = false
		n.translation = ch.vec3.Sample(t, n.translation)
	case pathRotation:
		n.useMatrix = false
		n.rotation = ch.quat.Sample(t, n.rotation)
	case pathScale:
		n.useMatrix = false
		n.scale = ch.vec3.Sample(t, n.scale)
	case pathMatrix:
		n.useMatrix = true
		n.matrix = ch.mat.Sample(t, n.matrix)
	}
	n.dirty = true
}

// advanceClips evaluates every playing clip at the frame's time,
// looping or stopping clips that ran past their end.
func (m *Model) advanceClips(now float64) {
	if len(m.playing) == 0 {
		return
	}
	active := m.playing[:0]
	for _, p := range m.playing {
		local := float32(now-p.start) + p.clip.Start
		if local > p.clip.End {
			if !p.loop || p.clip.Duration() <= 0 {
				// Clamp to the final pose and retire the playback.
				m.evaluateClip(p.clip, p.clip.End)
				continue
			}
			cycles := int((local - p.clip.Start) / p.clip.Duration())
			local -= float32(cycles) * p.clip.Duration()
		}
		m.evaluateClip(p.clip, local)
		active = append(active, p)
	}
	m.playing = active
}

func (m *Model) evaluateClip(clip *AnimationClip, t float32) {
	for i := range clip.channels {
		m.evaluateChannel(&clip.channels[i], t)
	}
}
