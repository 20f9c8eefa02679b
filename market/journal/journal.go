// Package journal 撤销日志
// 所有可变状态 (余额, 托管, 索引, NFT 所有权...) 在修改前向同一个 Journal 追加撤销函数,
// 一次操作失败时回滚到操作开始前的快照, 保证操作的全有或全无
package journal

import "fmt"

// Journal 撤销日志, 非并发安全, 由调用方 (交易所全局锁) 保证串行
type Journal struct {
	undos     []func()
	snapshots []int
}

func New() *Journal {
	return &Journal{}
}

// Append 记录一个撤销函数, nil 接收者表示不记录 (用于独立使用的组件)
func (j *Journal) Append(undo func()) {
	if j == nil {
		return
	}
	j.undos = append(j.undos, undo)
}

// Snapshot 记录当前位置并返回快照 id
func (j *Journal) Snapshot() int {
	j.snapshots = append(j.snapshots, len(j.undos))
	return len(j.snapshots) - 1
}

// RevertToSnapshot 逆序执行快照之后的所有撤销函数, 并丢弃该快照及其之后的快照
func (j *Journal) RevertToSnapshot(id int) {
	if id < 0 || id >= len(j.snapshots) {
		panic(fmt.Errorf("journal: snapshot id %d out of range [0, %d)", id, len(j.snapshots)))
	}
	mark := j.snapshots[id]
	for i := len(j.undos) - 1; i >= mark; i-- {
		j.undos[i]()
		j.undos[i] = nil
	}
	j.undos = j.undos[:mark]
	j.snapshots = j.snapshots[:id]
}

// Commit 丢弃所有撤销记录
func (j *Journal) Commit() {
	for i := range j.undos {
		j.undos[i] = nil
	}
	j.undos = j.undos[:0]
	j.snapshots = j.snapshots[:0]
}

// Len 当前未提交的撤销记录数
func (j *Journal) Len() int {
	return len(j.undos)
}
