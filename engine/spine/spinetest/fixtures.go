// Package spinetest provides a small Spine rig shared by tests across the engine packages.
package spinetest

// AtlasPath and SkeletonPath are the asset paths the fixtures are usually served under.
const (
	AtlasPath    = "spineboy/spineboy.atlas"
	SkeletonPath = "spineboy/spineboy.json"
	PagePath     = "spineboy/spineboy.png"
)

// Atlas is a one-page atlas in the compact (bounds/offsets) layout.
const Atlas = `spineboy.png
size: 256, 256
filter: Linear, Linear
pma: true
torso
bounds: 2, 2, 60, 90
head
bounds: 64, 2, 70, 80
rotate: 90
goggles-normal
bounds: 136, 2, 40, 20
goggles-tactical
bounds: 136, 24, 40, 22
offsets: 1, 1, 42, 24
gun-normal
bounds: 2, 94, 80, 40
gun-freeze
bounds: 84, 94, 82, 42
`

// LegacyAtlas is a two-page atlas in the legacy (xy/size/orig/offset) layout.
const LegacyAtlas = `
legacy.png
size: 128,128
format: RGBA8888
filter: Nearest,MipMapLinearLinear
repeat: xy
torso
  rotate: false
  xy: 2, 2
  size: 60, 90
  orig: 64, 96
  offset: 2, 3
  index: -1
head
  rotate: true
  xy: 64, 2
  size: 70, 80
  orig: 70, 80
  offset: 0, 0
  index: -1

legacy2.png
size: 64,64
format: RGBA8888
filter: Linear,Linear
repeat: none
run
  rotate: false
  xy: 0, 0
  size: 10, 10
  orig: 10, 10
  offset: 0, 0
  index: 3
`

// SkeletonJSON references only regions present in Atlas.
const SkeletonJSON = `{
  "skeleton": {"hash": "fixture", "spine": "4.1.24", "x": -100, "y": -10, "width": 200, "height": 300, "images": "./images/"},
  "bones": [
    {"name": "root"},
    {"name": "hip", "parent": "root", "y": 120},
    {"name": "torso", "parent": "hip", "length": 60, "rotation": 90},
    {"name": "head", "parent": "torso", "x": 60, "length": 50, "scaleX": 1.2},
    {"name": "gun-bone", "parent": "torso", "x": 30, "rotation": -90}
  ],
  "slots": [
    {"name": "body", "bone": "torso", "attachment": "torso"},
    {"name": "head", "bone": "head", "attachment": "head", "color": "ffffffcc"},
    {"name": "goggles", "bone": "head", "attachment": "goggles"},
    {"name": "gun", "bone": "gun-bone", "attachment": "gun", "blend": "additive"},
    {"name": "hitbox", "bone": "hip"}
  ],
  "skins": [
    {
      "name": "default",
      "attachments": {
        "body": {"torso": {"width": 60, "height": 90}},
        "head": {"head": {"width": 70, "height": 80}},
        "hitbox": {"box": {"type": "boundingbox", "vertexCount": 4, "vertices": [0, 0, 1, 0, 1, 1, 0, 1]}}
      }
    },
    {
      "name": "template",
      "attachments": {
        "goggles": {"goggles": {"path": "goggles-normal", "width": 40, "height": 20}},
        "gun": {"gun": {"name": "gun", "path": "gun-normal", "width": 80, "height": 40}}
      }
    },
    {
      "name": "tactical",
      "attachments": {
        "goggles": {"goggles": {"type": "mesh", "path": "goggles-tactical", "uvs": [0, 0, 1, 0, 1, 1], "triangles": [0, 1, 2], "vertices": [0, 0, 1, 0, 1, 1]}},
        "gun": {
          "gun": {"path": "gun-freeze", "width": 82, "height": 42},
          "gun-alt": {"type": "linkedmesh", "path": "gun-normal", "parent": "gun-mesh", "skin": "tactical"},
          "gun-mesh": {"type": "mesh", "path": "gun-normal", "uvs": [0, 0, 1, 0, 1, 1, 0, 1], "triangles": [0, 1, 2, 2, 3, 0], "vertices": [0, 0, 1, 0, 1, 1, 0, 1]}
        }
      }
    }
  ],
  "events": {
    "footstep": {"int": 1},
    "shoot": {"string": "bang", "audio": "gun.wav"}
  },
  "animations": {
    "run": {
      "bones": {
        "hip": {"rotate": [{"value": 0}, {"time": 0.2667, "value": 10}, {"time": 0.5333, "value": 0}]}
      },
      "events": [{"time": 0.2667, "name": "footstep"}]
    },
    "idle": {
      "slots": {
        "goggles": {"attachment": [{"time": 1.5, "name": "goggles"}]}
      }
    },
    "shoot": {
      "bones": {"gun-bone": {"translate": [{"time": 0.1, "x": -5}]}},
      "events": [{"name": "shoot"}],
      "drawOrder": [{"time": 0.05, "offsets": [{"slot": "gun", "offset": -2}]}]
    }
  }
}`

// SkeletonJSONMissingRegion references a "visor" region that Atlas does not contain.
const SkeletonJSONMissingRegion = `{
  "skeleton": {"spine": "4.1.24"},
  "bones": [{"name": "root"}],
  "slots": [{"name": "visor", "bone": "root", "attachment": "visor"}],
  "skins": [{"name": "default", "attachments": {"visor": {"visor": {"width": 10, "height": 10}}}}]
}`

// LegacySkeletonJSON uses the object form of skins against LegacyAtlas.
const LegacySkeletonJSON = `{
  "skeleton": {"spine": "3.8.99"},
  "bones": [{"name": "root"}, {"name": "body", "parent": "root"}],
  "slots": [{"name": "torso", "bone": "body", "attachment": "torso"}, {"name": "head", "bone": "body", "attachment": "head"}],
  "skins": {
    "default": {
      "torso": {"torso": {}},
      "head": {"head": {"type": "region"}}
    }
  },
  "animations": {"walk": {"bones": {"body": {"rotate": [{"time": 0, "angle": 0}, {"time": 1.25, "angle": 30}]}}}}
}`
