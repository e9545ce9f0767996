package yuletide

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-yuletide/engine/geometry"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/light"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/loader"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/scene"
	"github.com/chewxy/math32"
)

// Asset paths, relative to the loader root.
const (
	OrnamentModel = "christmas-ball/scene.gltf"
	GiftModel     = "christmas-gift/scene.gltf"
	SnowmanModel  = "snowman/scene.gltf"
)

var skyboxFaces = [6]string{"posx", "negx", "posy", "negy", "posz", "negz"}

// modelLoad is a submitted model load. attach turns the loaded model into the top-level nodes it
// contributes; placed records how many were inserted so later loads keep their slot.
type modelLoad struct {
	name   string
	task   *loader.Task[scene.Node]
	attach func(scene.Node) []scene.Node
	done   bool
	placed int
}

func (a *app) addLights() {
	a.scene.Add(
		scene.NewLight(light.NewAmbient(0xffffff, 0.4), scene.WithName("ambient")),
		scene.NewLight(light.NewDirectional(0xffffff, 0.6), scene.WithName("sun"), scene.WithPosition(0, 1, 0.5)),
	)
}

func (a *app) addSkybox() {
	faces := make([]material.Material, len(skyboxFaces))
	for i, face := range skyboxFaces {
		faces[i] = material.NewMaterial(
			material.WithName("skybox_"+face),
			material.WithKind(material.KindBasic),
			material.WithSide(material.SideBack),
			material.WithMap(material.MapDiffuse, a.loader.Texture("background/"+face+".jpg")),
		)
	}
	a.scene.Add(scene.NewMesh(geometry.Box(100, 100, 100), faces, scene.WithName("skybox"), scene.WithPosition(0, 10, 0)))
}

func (a *app) addGround() {
	snow := material.NewMaterial(
		material.WithName("snow"),
		material.WithTransparent(true),
		material.WithDisplacementScale(0.1),
		material.WithMap(material.MapDiffuse, a.loader.Texture("textures/snow_diff.jpg")),
		material.WithMap(material.MapDisplacement, a.loader.Texture("textures/snow_disp.jpg")),
		material.WithMap(material.MapRoughness, a.loader.Texture("textures/snow_rough.jpg")),
		material.WithMap(material.MapAlpha, a.loader.Texture("textures/snow_translucent.png")),
		material.WithMap(material.MapNormal, a.loader.Texture("textures/snow_nor.jpg")),
	)
	a.scene.Add(scene.NewMesh(geometry.Plane(100, 100), []material.Material{snow},
		scene.WithName("ground"),
		scene.WithRotation(-math32.Pi/2, 0, 0),
		scene.WithPosition(0, -0.75, 0),
	))
}

func (a *app) addTree() {
	wood := material.NewMaterial(
		material.WithName("wood"),
		material.WithMap(material.MapDiffuse, a.loader.Texture("wood/wood_diff.jpg")),
		material.WithMap(material.MapBump, a.loader.Texture("wood/wood_bump.jpg")),
		material.WithMap(material.MapNormal, a.loader.Texture("wood/wood_normal.jpg")),
	)
	trunk := scene.NewMesh(geometry.Cylinder(0.2, 0.5, 3.5, treeSegments), []material.Material{wood},
		scene.WithName("trunk"), scene.WithPosition(0, 1.15, 0))

	tree := scene.NewGroup(scene.WithName("tree"), scene.WithScale(treeScale, treeScale, treeScale), scene.WithChildren(trunk))

	needles := material.NewMaterial(material.WithName("needles"), material.WithKind(material.KindLambert), material.WithHexColor(0x4d7541))
	bulb := material.NewMaterial(material.WithName("bulb"), material.WithKind(material.KindBasic), material.WithHexColor(0xff0000))
	bulbModel := geometry.Sphere(0.1, 8, 8)

	for i, layer := range TreeLayers() {
		cone := scene.NewMesh(geometry.Cone(layer.Radius, layer.Height, treeSegments), []material.Material{needles},
			scene.WithName(fmt.Sprintf("layer_%d", i)), scene.WithPosition(0, layer.Y, 0))
		for j := range lightsPerLayer {
			p := TreeLightPosition(j, layer, a.random)
			cone.Add(scene.NewMesh(bulbModel, []material.Material{bulb},
				scene.WithName(fmt.Sprintf("bulb_%d_%d", i, j)), scene.WithPosition(p.X(), p.Y(), p.Z())))
		}
		tree.Add(cone)
	}
	a.scene.Add(tree)
}

// submitOrnaments loads the ball once and places clones on a ring around each layer.
func (a *app) submitOrnaments() {
	layers := TreeLayers()
	a.submit("ornaments", OrnamentModel, func(ball scene.Node) []scene.Node {
		ball.SetScale(4, 4, 4)
		var clones []scene.Node
		for i, n := range ornamentCounts {
			for j, p := range RingPositions(n, layers[i].Radius, ornamentHeights[i]) {
				clone := ball.Clone()
				clone.SetName(fmt.Sprintf("ornament_%d_%d", i, j))
				clone.SetPosition(p.X(), p.Y(), p.Z())
				clone.Add(scene.NewLight(light.NewPoint(0x130044, 1, 2), scene.WithName("ornament_light")))
				clones = append(clones, clone)
			}
		}
		return clones
	})
}

// submitGifts issues one load per gift. Scales are drawn now so the result does not depend on
// which load finishes first.
func (a *app) submitGifts() {
	for i, p := range GiftPositions() {
		s := GiftScale(a.random)
		name := fmt.Sprintf("gift_%d", i)
		a.submit(name, GiftModel, func(gift scene.Node) []scene.Node {
			gift.SetName(name)
			gift.SetScale(s, s, s)
			gift.SetPosition(p.X(), p.Y(), p.Z())
			gift.Add(scene.NewLight(light.NewPoint(0xe8c166, 3.0, 0.5), scene.WithName("gift_light")))
			return []scene.Node{gift}
		})
	}
}

func (a *app) submitSnowman() {
	a.submit("snowman", SnowmanModel, func(snowman scene.Node) []scene.Node {
		snowman.SetName("snowman")
		snowman.SetScale(1, 1, 1)
		snowman.SetPosition(2.5, -0.7, 3)
		return []scene.Node{snowman}
	})
}

func (a *app) submit(name, path string, attach func(scene.Node) []scene.Node) {
	a.logger.Debug().Str("load", name).Str("path", path).Msg("submitting model load")
	a.loads = append(a.loads, &modelLoad{name: name, task: a.loader.LoadAsync(path), attach: attach})
}
