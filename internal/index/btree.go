package index

import "slices"

// node узел b+ дерева. в листьях values[i] хранит все значения для keys[i]
type node[V comparable] struct {
	isLeaf   bool
	keys     []string
	values   [][]V
	children []*node[V]
	parent   *node[V]
}

// BTree b+ tree с ключами-строками и несколькими значениями на ключ.
// значения одного ключа хранятся в порядке вставки
type BTree[V comparable] struct {
	root  *node[V]
	order int
	size  int
}

// NewBPlusTree создаёт новый b+ tree с указанным order
func NewBPlusTree[V comparable](order int) *BTree[V] {
	if order < 2 {
		order = 2
	}
	return &BTree[V]{
		root:  &node[V]{isLeaf: true},
		order: order,
	}
}

// Len количество ключей в дереве
func (tree *BTree[V]) Len() int {
	return tree.size
}

// Insert вставляет ключ и значение в дерево
func (tree *BTree[V]) Insert(key string, value V) {
	// поиск листа в дереве для вставки ключа
	leaf := tree.findLeaf(tree.root, key)

	tree.insertInLeaf(leaf, key, value)

	// если лист переполнен, разделим его
	if len(leaf.keys) > tree.order*2-1 {
		tree.splitLeaf(leaf)
	}
}

// findLeaf возвращает лист для заданного ключа
func (tree *BTree[V]) findLeaf(n *node[V], key string) *node[V] {
	for !n.isLeaf {
		i, found := slices.BinarySearch(n.keys, key)
		// ключ равный разделителю лежит в правом поддереве
		if found {
			i++
		}
		n = n.children[i]
	}
	return n
}

// insertInLeaf вставляет ключ и значение в лист
func (tree *BTree[V]) insertInLeaf(leaf *node[V], key string, value V) {
	pos, found := slices.BinarySearch(leaf.keys, key)

	// если ключ уже есть, добавляем значение в конец
	if found {
		leaf.values[pos] = append(leaf.values[pos], value)
		return
	}

	leaf.keys = slices.Insert(leaf.keys, pos, key)
	leaf.values = slices.Insert(leaf.values, pos, []V{value})
	tree.size++
}

// splitLeaf разделяет лист пополам
func (tree *BTree[V]) splitLeaf(leaf *node[V]) {
	mid := len(leaf.keys) / 2

	newLeaf := &node[V]{
		isLeaf: true,
		keys:   slices.Clone(leaf.keys[mid:]),
		values: slices.Clone(leaf.values[mid:]),
		parent: leaf.parent,
	}

	leaf.keys = slices.Clip(leaf.keys[:mid])
	leaf.values = slices.Clip(leaf.values[:mid])

	// первый ключ нового листа поднимается в родителя
	tree.insertInParent(leaf, newLeaf.keys[0], newLeaf)
}

// insertInParent поднимает ключ в родителя после сплита
func (tree *BTree[V]) insertInParent(left *node[V], key string, right *node[V]) {
	if left.parent == nil {
		newRoot := &node[V]{
			keys:     []string{key},
			children: []*node[V]{left, right},
		}
		left.parent = newRoot
		right.parent = newRoot
		tree.root = newRoot
		return
	}

	parent := left.parent
	pos, _ := slices.BinarySearch(parent.keys, key)

	parent.keys = slices.Insert(parent.keys, pos, key)
	parent.children = slices.Insert(parent.children, pos+1, right)
	right.parent = parent

	if len(parent.keys) > tree.order*2-1 {
		tree.splitInternal(parent)
	}
}

// splitInternal разделяет внутренний узел и поднимает средний ключ в родителя
func (tree *BTree[V]) splitInternal(n *node[V]) {
	mid := len(n.keys) / 2
	keyToPushUp := n.keys[mid]

	newNode := &node[V]{
		keys:     slices.Clone(n.keys[mid+1:]),
		children: slices.Clone(n.children[mid+1:]),
		parent:   n.parent,
	}
	for _, child := range newNode.children {
		child.parent = newNode
	}

	n.keys = slices.Clip(n.keys[:mid])
	n.children = slices.Clip(n.children[:mid+1])

	tree.insertInParent(n, keyToPushUp, newNode)
}

// Search точечный поиск, значения в порядке вставки
func (tree *BTree[V]) Search(key string) []V {
	leaf := tree.findLeaf(tree.root, key)
	if pos, found := slices.BinarySearch(leaf.keys, key); found {
		return slices.Clone(leaf.values[pos])
	}
	return nil
}

// First первое вставленное значение для ключа
func (tree *BTree[V]) First(key string) (V, bool) {
	leaf := tree.findLeaf(tree.root, key)
	if pos, found := slices.BinarySearch(leaf.keys, key); found {
		return leaf.values[pos][0], true
	}
	var zero V
	return zero, false
}

// Remove убирает одно значение у ключа. если значений не осталось,
// ключ удаляется из листа. разделители во внутренних узлах остаются,
// поиск от этого не ломается, поэтому ребалансировки нет
func (tree *BTree[V]) Remove(key string, value V) bool {
	leaf := tree.findLeaf(tree.root, key)
	pos, found := slices.BinarySearch(leaf.keys, key)
	if !found {
		return false
	}

	i := slices.Index(leaf.values[pos], value)
	if i < 0 {
		return false
	}

	leaf.values[pos] = slices.Delete(leaf.values[pos], i, i+1)
	if len(leaf.values[pos]) == 0 {
		leaf.keys = slices.Delete(leaf.keys, pos, pos+1)
		leaf.values = slices.Delete(leaf.values, pos, pos+1)
		tree.size--
	}
	return true
}

