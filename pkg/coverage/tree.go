package coverage

import (
	"path"
	"sort"
	"strings"
)

const separator = "/"

// CoverageTree rolls file coverage up to every enclosing directory.
type CoverageTree interface {
	// FindOrCreate returns the leaf node of file,
	// creating all the nodes along the path to the leaf when missing.
	FindOrCreate(file string) *TreeNode
	Find(dir string) *TreeNode
	CollectCoverageData()
	Directories() []*DirectoryCoverage
}

// TreeNode represents the node of multi branches tree.
// Internal nodes are directories and store their sub nodes by name, leaf nodes are files.
type TreeNode struct {
	Name          string               // name
	TotalSegments int64                // segments account for coverage
	Executed      int64                // segments executed at least once
	Nodes         map[string]*TreeNode // sub nodes that store in map
	isLeaf        bool                 // whether the node is leaf or internal node
}

func NewTreeNode(name string, isLeaf bool) *TreeNode {
	return &TreeNode{
		Name:   name,
		Nodes:  make(map[string]*TreeNode),
		isLeaf: isLeaf,
	}
}

// DirectoryCoverage is the rolled up coverage of one directory.
type DirectoryCoverage struct {
	Path     string
	Files    int
	Executed int
	Total    int
	Percent  float64
	Band     Band
}

func NewCoverageTree() CoverageTree {
	return &coverageTree{root: NewTreeNode("", false)}
}

// NewCoverageTreeFromFiles builds the tree of the included files and collects the directory totals.
func NewCoverageTreeFromFiles(files []*FileCoverage) CoverageTree {
	tree := NewCoverageTree()
	for _, f := range files {
		node := tree.FindOrCreate(f.Path)
		node.TotalSegments += int64(f.Total)
		node.Executed += int64(f.Executed)
	}
	tree.CollectCoverageData()
	return tree
}

type coverageTree struct {
	root *TreeNode
}

var _ CoverageTree = (*coverageTree)(nil)

func tokens(p string) []string {
	p = strings.Trim(p, separator)
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, separator)
}

func (t *coverageTree) Find(dir string) *TreeNode {
	currentNode := t.root
	for _, name := range tokens(dir) {
		node, ok := currentNode.Nodes[name]
		if !ok {
			return nil
		}
		currentNode = node
	}
	return currentNode
}

func (t *coverageTree) FindOrCreate(file string) *TreeNode {
	dir, f := path.Split(strings.TrimLeft(file, separator))

	currentNode := t.root
	for _, name := range tokens(dir) {
		node, ok := currentNode.Nodes[name]
		if !ok {
			node = NewTreeNode(name, false)
			currentNode.Nodes[name] = node
		}
		currentNode = node
	}

	leaf, ok := currentNode.Nodes[f]
	if !ok {
		leaf = NewTreeNode(f, true)
		currentNode.Nodes[f] = leaf
	}
	return leaf
}

func (t *coverageTree) CollectCoverageData() {
	collect(t.root)
}

// collect sums the leaves bottom-up and returns total and executed segments of root.
func collect(root *TreeNode) (int64, int64) {
	if root == nil {
		return 0, 0
	}
	if root.isLeaf {
		return root.TotalSegments, root.Executed
	}

	var total, executed int64
	for _, node := range root.Nodes {
		t, e := collect(node)
		total += t
		executed += e
	}

	root.TotalSegments = total
	root.Executed = executed
	return total, executed
}

func countFiles(root *TreeNode) int {
	if root.isLeaf {
		return 1
	}
	count := 0
	for _, node := range root.Nodes {
		count += countFiles(node)
	}
	return count
}

// Directories returns every directory containing files, sorted by path.
func (t *coverageTree) Directories() []*DirectoryCoverage {
	var result []*DirectoryCoverage

	var dfs func(root *TreeNode, parents []string)
	dfs = func(root *TreeNode, parents []string) {
		if root.isLeaf {
			return
		}

		if len(parents) > 0 {
			percent := Percent(int(root.Executed), int(root.TotalSegments))
			result = append(result, &DirectoryCoverage{
				Path:     strings.Join(parents, separator),
				Files:    countFiles(root),
				Executed: int(root.Executed),
				Total:    int(root.TotalSegments),
				Percent:  percent,
				Band:     BandFor(percent),
			})
		}

		for name, node := range root.Nodes {
			dfs(node, append(append([]string{}, parents...), name))
		}
	}

	dfs(t.root, nil)

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}
