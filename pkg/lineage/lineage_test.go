package lineage

import (
	"reflect"
	"testing"
)

const eeveeChain = `{
  "chain": {
    "species": {"name": "eevee", "url": "https://pokeapi.co/api/v2/pokemon-species/133/"},
    "evolution_details": [],
    "evolves_to": [
      {
        "species": {"name": "vaporeon", "url": "https://pokeapi.co/api/v2/pokemon-species/134/"},
        "evolution_details": [{"min_level": null, "trigger": {"name": "use-item"}, "item": {"name": "water-stone"}}],
        "evolves_to": []
      },
      {
        "species": {"name": "jolteon", "url": "https://pokeapi.co/api/v2/pokemon-species/135/"},
        "evolution_details": [{"trigger": {"name": "use-item"}, "item": {"name": "thunder-stone"}}],
        "evolves_to": []
      }
    ]
  }
}`

const bulbasaurChain = `{
  "chain": {
    "species": {"name": "bulbasaur", "url": "u1"},
    "evolution_details": [],
    "evolves_to": [{
      "species": {"name": "ivysaur", "url": "u2"},
      "evolution_details": [{"min_level": 16, "trigger": {"name": "level-up"}, "item": null}],
      "evolves_to": [{
        "species": {"name": "venusaur", "url": "u3"},
        "evolution_details": [{"min_level": 32, "trigger": {"name": "level-up"}}],
        "evolves_to": []
      }]
    }]
  }
}`

func TestDecode_Linear(t *testing.T) {
	root, err := Decode([]byte(bulbasaurChain))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got := Species(root); !reflect.DeepEqual(got, []string{"bulbasaur", "ivysaur", "venusaur"}) {
		t.Errorf("Species() = %v", got)
	}
	if root.Transition != nil {
		t.Errorf("root transition = %+v, want nil", root.Transition)
	}

	ivysaur := Find(root, "ivysaur")
	if ivysaur == nil || ivysaur.Transition == nil {
		t.Fatal("ivysaur transition missing")
	}
	if ivysaur.Transition.Trigger != "level-up" || ivysaur.Transition.MinLevel == nil || *ivysaur.Transition.MinLevel != 16 {
		t.Errorf("ivysaur transition = %+v", ivysaur.Transition)
	}
	if Depth(root) != 3 {
		t.Errorf("Depth() = %d, want 3", Depth(root))
	}
}

func TestDecode_Branching(t *testing.T) {
	root, err := Decode([]byte(eeveeChain))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	steps := Flatten(root)
	var names []string
	var depths []int
	for _, s := range steps {
		names = append(names, s.Node.Species)
		depths = append(depths, s.Depth)
	}
	if !reflect.DeepEqual(names, []string{"eevee", "vaporeon", "jolteon"}) {
		t.Errorf("names = %v", names)
	}
	if !reflect.DeepEqual(depths, []int{0, 1, 1}) {
		t.Errorf("depths = %v", depths)
	}

	vaporeon := Find(root, "vaporeon")
	if vaporeon.Transition.Item != "water-stone" || vaporeon.Transition.MinLevel != nil {
		t.Errorf("vaporeon transition = %+v", vaporeon.Transition)
	}
}

func TestDecode_Errors(t *testing.T) {
	for _, doc := range []string{`{`, `{}`} {
		if _, err := Decode([]byte(doc)); err == nil {
			t.Errorf("Decode(%q) expected error", doc)
		}
	}
}

func TestWalk_DeepChainIsIterative(t *testing.T) {
	root := &Node{Species: "n0"}
	cur := root
	for i := 1; i < 100000; i++ {
		next := &Node{Species: "n"}
		cur.Children = []*Node{next}
		cur = next
	}

	if got := Depth(root); got != 100000 {
		t.Errorf("Depth() = %d, want 100000", got)
	}
}

func TestWalk_StopEarly(t *testing.T) {
	root, _ := Decode([]byte(eeveeChain))

	visited := 0
	Walk(root, func(Step) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("visited = %d, want 2", visited)
	}
}

func TestWalk_Nil(t *testing.T) {
	Walk(nil, func(Step) bool {
		t.Fatal("fn called for nil root")
		return true
	})
	if Find(nil, "x") != nil || Depth(nil) != 0 {
		t.Error("nil root helpers should return zero values")
	}
}
