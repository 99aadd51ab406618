package builder

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// wireGraph - сериализованная форма графа для endpoint сохранения
type wireGraph struct {
	Nodes []wireNode `json:"nodes"`
	Edges []Edge     `json:"edges"`
}

type wireNode struct {
	ID       string              `json:"id"`
	Kind     string              `json:"kind"`
	Label    string              `json:"label,omitempty"`
	Position Position            `json:"position"`
	Config   jsoniter.RawMessage `json:"config"`
}

// Serialize кодирует граф в JSON blob для сохранения на backend
func (g *Graph) Serialize() ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	wire := wireGraph{
		Nodes: make([]wireNode, 0, len(g.nodes)),
		Edges: make([]Edge, 0, len(g.edges)),
	}
	wire.Edges = append(wire.Edges, g.edges...)

	for _, n := range g.nodes {
		cfg, err := json.Marshal(n.Config)
		if err != nil {
			return nil, fmt.Errorf("serialize node %s config: %w", n.ID, err)
		}
		wire.Nodes = append(wire.Nodes, wireNode{
			ID:       n.ID,
			Kind:     n.Kind,
			Label:    n.Label,
			Position: n.Position,
			Config:   cfg,
		})
	}

	return json.Marshal(wire)
}

// Deserialize восстанавливает граф из сохранённого blob.
// Узел с неизвестным видом - ошибка загрузки целиком:
// граф с частично потерянной конфигурацией бесполезен.
func Deserialize(blob []byte) (*Graph, error) {
	var wire wireGraph
	if err := json.Unmarshal(blob, &wire); err != nil {
		return nil, fmt.Errorf("decode strategy graph: %w", err)
	}

	g := NewGraph()
	for _, wn := range wire.Nodes {
		cfg, err := decodeConfig(wn.Kind, wn.Config)
		if err != nil {
			return nil, fmt.Errorf("decode node %s: %w", wn.ID, err)
		}
		g.nodes = append(g.nodes, Node{
			ID:       wn.ID,
			Kind:     wn.Kind,
			Label:    wn.Label,
			Position: wn.Position,
			Config:   cfg,
		})
	}
	g.edges = append(g.edges, wire.Edges...)

	return g, nil
}
