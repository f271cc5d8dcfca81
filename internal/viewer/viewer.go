// Package viewer emits a static browser scaffold for inspecting the exported
// splat artifact. The scaffold is an opaque collaborator: no server, no
// rendering logic of our own, just an HTML page pointing a WebGL splat
// renderer at the PLY file.
package viewer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

var pageTemplate = template.Must(template.New("viewer").Parse(`<!doctype html><meta charset=utf-8><title>Splat Viewer</title>
<script type=importmap>{"imports":{"three":"https://cdnjs.cloudflare.com/ajax/libs/three.js/0.174.0/three.module.js","@sparkjsdev/spark":"https://sparkjs.dev/releases/spark/0.1.6/spark.module.js"}}</script>
<style>html,body{margin:0;height:100%;overflow:hidden}</style>
<body><script type=module>
import * as THREE from 'three';
import {OrbitControls} from 'https://unpkg.com/three@0.174.0/examples/jsm/controls/OrbitControls.js';
import {SplatMesh} from '@sparkjsdev/spark';
const scene = new THREE.Scene();
const camera = new THREE.PerspectiveCamera(60, innerWidth/innerHeight, 0.1, 1000);
camera.position.set(0,0,10);
const renderer = new THREE.WebGLRenderer(); document.body.appendChild(renderer.domElement);
new OrbitControls(camera, renderer.domElement);
scene.add(new SplatMesh({url:'{{.PlyPath}}'}));
addEventListener('resize',()=>{renderer.setSize(innerWidth,innerHeight); camera.aspect=innerWidth/innerHeight; camera.updateProjectionMatrix();});
window.dispatchEvent(new Event('resize'));
renderer.setAnimationLoop(()=>renderer.render(scene,camera));
</script>
`))

// Write renders index.html into dir, creating it if absent. plyPath is the
// artifact location relative to the page. Overwrites idempotently.
func Write(dir, plyPath string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating viewer directory: %w", err)
	}

	var b bytes.Buffer
	if err := pageTemplate.Execute(&b, struct{ PlyPath string }{plyPath}); err != nil {
		return fmt.Errorf("rendering viewer page: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "index.html"), b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing viewer page: %w", err)
	}
	return nil
}
