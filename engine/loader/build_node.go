package loader

import (
	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/scene"
)

// BuildNode turns imported model data into a node tree.
// The returned group is named after the model and holds one child per scene root. Every imported
// node becomes a group carrying its local transform, with one mesh child per primitive.
// Primitives without a material get a white standard material.
//
// Parameters:
//   - imported: the CPU-side model data
//
// Returns:
//   - scene.Node: the root group
func BuildNode(imported *model.ImportedModel) scene.Node {
	materials := make([]material.Material, len(imported.Materials))
	for i := range imported.Materials {
		materials[i] = ConvertMaterial(&imported.Materials[i])
	}
	var fallback material.Material
	materialFor := func(idx int) material.Material {
		if idx >= 0 && idx < len(materials) {
			return materials[idx]
		}
		if fallback == nil {
			fallback = material.NewMaterial(
				material.WithName(imported.Name+"_default"),
				material.WithMetalness(1),
			)
		}
		return fallback
	}

	models := make([]model.Model, len(imported.Meshes))
	for i := range imported.Meshes {
		mesh := &imported.Meshes[i]
		models[i] = model.NewModel(
			model.WithName(mesh.Name),
			model.WithParameters(model.Parameters{Kind: model.KindImported}),
			model.WithMesh(mesh.Vertices, mesh.Indices),
		)
	}

	// the hierarchy is validated on import but may still reference a node from two places
	onPath := make([]bool, len(imported.Nodes))
	var build func(idx int) scene.Node
	build = func(idx int) scene.Node {
		if idx < 0 || idx >= len(imported.Nodes) || onPath[idx] {
			return nil
		}
		onPath[idx] = true
		defer func() { onPath[idx] = false }()

		in := &imported.Nodes[idx]
		n := scene.NewGroup(scene.WithName(in.Name))
		n.SetMatrix(in.Matrix)

		for _, mi := range in.Meshes {
			if mi < 0 || mi >= len(models) {
				continue
			}
			mesh := &imported.Meshes[mi]
			n.Add(scene.NewMesh(models[mi], []material.Material{materialFor(mesh.MaterialIndex)}, scene.WithName(mesh.Name)))
		}
		for _, c := range in.Children {
			if child := build(c); child != nil {
				n.Add(child)
			}
		}
		return n
	}

	root := scene.NewGroup(scene.WithName(imported.Name))
	for _, r := range imported.Roots {
		if child := build(r); child != nil {
			root.Add(child)
		}
	}
	return root
}

// ConvertMaterial maps an imported metallic-roughness material onto a standard material.
// The metallic-roughness texture feeds both the roughness (green) and metalness (blue) slots.
//
// Parameters:
//   - imp: the imported material
//
// Returns:
//   - material.Material: the render material
func ConvertMaterial(imp *common.ImportedMaterial) material.Material {
	side := material.SideFront
	if imp.DoubleSided {
		side = material.SideDouble
	}

	return material.NewMaterial(
		material.WithName(common.Coalesce(imp.Name, "material")),
		material.WithKind(material.KindStandard),
		material.WithColor(common.Color{imp.BaseColor[0], imp.BaseColor[1], imp.BaseColor[2]}),
		material.WithOpacity(imp.BaseColor[3]),
		material.WithTransparent(imp.AlphaBlend),
		material.WithAlphaTest(imp.AlphaCutoff),
		material.WithSide(side),
		material.WithRoughness(imp.Roughness),
		material.WithMetalness(imp.Metallic),
		material.WithEmissive(common.Color(imp.Emissive)),
		material.WithMap(material.MapDiffuse, imp.DiffuseTexture),
		material.WithMap(material.MapNormal, imp.NormalTexture),
		material.WithMap(material.MapRoughness, imp.MetallicRoughnessTexture),
		material.WithMap(material.MapMetalness, imp.MetallicRoughnessTexture),
		material.WithMap(material.MapEmissive, imp.EmissiveTexture),
	)
}
