// assetinfo is a CLI utility for inspecting asset descriptors.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/Faultbox/asgard/internal/engine/asset"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "nodes":
		cmdNodes(args)
	case "animations", "anims":
		cmdAnimations(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`assetinfo - asset descriptor inspection utility

Usage:
  assetinfo <command> [options]

Commands:
  info <model.json>        Show descriptor summary
  nodes <model.json>       Print the scene node hierarchy
  animations <model.json>  List animation clips and channels

Examples:
  assetinfo info duck.json
  assetinfo nodes rig.json
  assetinfo animations rig.json`)
}

func parse(path string) *asset.Descriptor {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	desc, err := asset.ParseDescriptor(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return desc
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: assetinfo info <model.json>")
		os.Exit(1)
	}
	desc := parse(args[0])

	primitives := 0
	for _, mesh := range desc.Meshes {
		primitives += len(mesh.Primitives)
	}
	var externalBytes int
	for _, buf := range desc.Buffers {
		externalBytes += buf.ByteLength
	}

	fmt.Printf("Descriptor: %s\n", args[0])
	fmt.Printf("Scene:      %s\n", desc.Scene)
	fmt.Println()
	fmt.Printf("Nodes:       %d\n", len(desc.Nodes))
	fmt.Printf("Meshes:      %d (%d primitives)\n", len(desc.Meshes), primitives)
	fmt.Printf("Accessors:   %d\n", len(desc.Accessors))
	fmt.Printf("Buffers:     %d (%.2f KB external)\n", len(desc.Buffers), float64(externalBytes)/1024)
	fmt.Printf("Programs:    %d (%d shaders)\n", len(desc.Programs), len(desc.Shaders))
	fmt.Printf("Materials:   %d (%d techniques)\n", len(desc.Materials), len(desc.Techniques))
	fmt.Printf("Textures:    %d (%d images)\n", len(desc.Textures), len(desc.Images))
	fmt.Printf("Skins:       %d\n", len(desc.Skins))
	fmt.Printf("Animations:  %d\n", len(desc.Animations))
}

func cmdNodes(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: assetinfo nodes <model.json>")
		os.Exit(1)
	}
	desc := parse(args[0])

	scene, ok := desc.Scenes[desc.Scene]
	if !ok {
		fmt.Println("(no scene)")
		return
	}
	roots := append([]string(nil), scene.Nodes...)
	sort.Strings(roots)
	for _, root := range roots {
		printNode(desc, root, 0)
	}
}

func printNode(desc *asset.Descriptor, name string, depth int) {
	node := desc.Nodes[name]
	for i := 0; i < depth; i++ {
		fmt.Print("  ")
	}
	fmt.Print(name)
	if node.JointID != "" {
		fmt.Printf(" [joint %s]", node.JointID)
	}
	if len(node.Meshes) > 0 {
		fmt.Printf(" (%d meshes)", len(node.Meshes))
	}
	if node.InstanceSkin != nil {
		fmt.Printf(" (skin %s)", node.InstanceSkin.Skin)
	}
	fmt.Println()

	children := append([]string(nil), node.Children...)
	sort.Strings(children)
	for _, child := range children {
		printNode(desc, child, depth+1)
	}
}

func cmdAnimations(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: assetinfo animations <model.json>")
		os.Exit(1)
	}
	desc := parse(args[0])

	if len(desc.Animations) == 0 {
		fmt.Println("(no animations)")
		return
	}

	names := make([]string, 0, len(desc.Animations))
	for name := range desc.Animations {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		anim := desc.Animations[name]
		fmt.Printf("%s: %d channels\n", name, len(anim.Channels))
		for _, ch := range anim.Channels {
			fmt.Printf("  %s.%s <- sampler %s\n", ch.Target.ID, ch.Target.Path, ch.Sampler)
		}
	}
}
