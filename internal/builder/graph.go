// Package builder хранит граф визуального конструктора стратегий
// на время сессии редактирования: узлы, рёбра, позиции и
// типизированная конфигурация каждого узла. Семантику стратегии
// граф не интерпретирует, этим занимается backend.
package builder

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrSelfEdge     = errors.New("edge endpoints must differ")
)

// ============================================================
// Node configs
// ============================================================

// Виды узлов стратегии
const (
	KindAsset     = "asset"
	KindIndicator = "indicator"
	KindCondition = "condition"
	KindAction    = "action"
)

// NodeConfig - конфигурация узла, своя форма на каждый вид
type NodeConfig interface {
	Kind() string
}

// AssetConfig - источник данных: торговая пара и таймфрейм
type AssetConfig struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
}

func (AssetConfig) Kind() string { return KindAsset }

// IndicatorConfig - технический индикатор над источником
type IndicatorConfig struct {
	Indicator string `json:"indicator"`
	Period    int    `json:"period"`
	Source    string `json:"source,omitempty"`
}

func (IndicatorConfig) Kind() string { return KindIndicator }

// ConditionConfig - сравнение значения индикатора с порогом
type ConditionConfig struct {
	Operator  string  `json:"operator"`
	Threshold float64 `json:"threshold"`
}

func (ConditionConfig) Kind() string { return KindCondition }

// ActionConfig - торговое действие при срабатывании условия
type ActionConfig struct {
	Side      string  `json:"side"`
	OrderType string  `json:"order_type"`
	Amount    float64 `json:"amount"`
}

func (ActionConfig) Kind() string { return KindAction }

// decodeConfig восстанавливает конфигурацию по виду узла.
// Неизвестный вид - ошибка, а не пустая карта.
func decodeConfig(kind string, raw []byte) (NodeConfig, error) {
	switch kind {
	case KindAsset:
		var c AssetConfig
		return c, json.Unmarshal(raw, &c)
	case KindIndicator:
		var c IndicatorConfig
		return c, json.Unmarshal(raw, &c)
	case KindCondition:
		var c ConditionConfig
		return c, json.Unmarshal(raw, &c)
	case KindAction:
		var c ActionConfig
		return c, json.Unmarshal(raw, &c)
	default:
		return nil, fmt.Errorf("unknown node kind %q", kind)
	}
}

// ============================================================
// Graph
// ============================================================

// Position - координаты узла на холсте
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node - узел графа стратегии
type Node struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Label    string     `json:"label,omitempty"`
	Position Position   `json:"position"`
	Config   NodeConfig `json:"config"`
}

// Edge - направленное ребро между узлами
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph - граф стратегии одной сессии редактирования.
// Порядок узлов и рёбер сохраняется по порядку добавления.
type Graph struct {
	mu    sync.RWMutex
	nodes []Node
	edges []Edge
}

// NewGraph создаёт пустой граф
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode добавляет узел и возвращает его ID
func (g *Graph) AddNode(label string, pos Position, cfg NodeConfig) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	node := Node{
		ID:       uuid.NewString(),
		Kind:     cfg.Kind(),
		Label:    label,
		Position: pos,
		Config:   cfg,
	}
	g.nodes = append(g.nodes, node)
	return node.ID
}

// Node возвращает узел по ID
func (g *Graph) Node(id string) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, n := range g.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// MoveNode обновляет позицию узла
func (g *Graph) MoveNode(id string, pos Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.nodes {
		if g.nodes[i].ID == id {
			g.nodes[i].Position = pos
			return nil
		}
	}
	return ErrNodeNotFound
}

// UpdateConfig заменяет конфигурацию узла.
// Вид узла следует за конфигурацией.
func (g *Graph) UpdateConfig(id string, cfg NodeConfig) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.nodes {
		if g.nodes[i].ID == id {
			g.nodes[i].Config = cfg
			g.nodes[i].Kind = cfg.Kind()
			return nil
		}
	}
	return ErrNodeNotFound
}

// RemoveNode удаляет узел вместе с инцидентными рёбрами
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := -1
	for i := range g.nodes {
		if g.nodes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNodeNotFound
	}

	g.nodes = append(g.nodes[:idx], g.nodes[idx+1:]...)

	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Source != id && e.Target != id {
			kept = append(kept, e)
		}
	}
	g.edges = kept
	return nil
}

// Connect создаёт ребро между существующими узлами
func (g *Graph) Connect(sourceID, targetID string) (string, error) {
	if sourceID == targetID {
		return "", ErrSelfEdge
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.hasNode(sourceID) || !g.hasNode(targetID) {
		return "", ErrNodeNotFound
	}

	edge := Edge{
		ID:     uuid.NewString(),
		Source: sourceID,
		Target: targetID,
	}
	g.edges = append(g.edges, edge)
	return edge.ID, nil
}

// Disconnect удаляет ребро по ID
func (g *Graph) Disconnect(edgeID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.edges {
		if g.edges[i].ID == edgeID {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			return
		}
	}
}

// Nodes возвращает копию списка узлов
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges возвращает копию списка рёбер
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g *Graph) hasNode(id string) bool {
	for _, n := range g.nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}
