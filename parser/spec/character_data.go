package spec

import "github.com/heathj/htmldom/parser/webidl"

// CharacterData is https://dom.spec.whatwg.org/#characterdata
type CharacterData struct {
	Data webidl.DOMString
}

func (c *CharacterData) length() int {
	return len([]rune(string(c.Data)))
}

func (c *CharacterData) Length() int {
	return c.length()
}

// SubstringData is https://dom.spec.whatwg.org/#concept-cd-substring
func (n *Node) SubstringData(offset, count int) (webidl.DOMString, error) {
	cd := n.characterData()
	runes := []rune(string(cd.Data))
	if offset < 0 || offset > len(runes) {
		return "", indexSizeError("offset %d out of range", offset)
	}
	end := offset + count
	if count < 0 || end > len(runes) {
		end = len(runes)
	}
	return webidl.DOMString(runes[offset:end]), nil
}

func (n *Node) AppendData(data webidl.DOMString) {
	n.ReplaceData(n.characterData().length(), 0, data)
}

func (n *Node) InsertData(offset int, data webidl.DOMString) error {
	return n.replaceDataErr(offset, 0, data)
}

func (n *Node) DeleteData(offset, count int) error {
	return n.replaceDataErr(offset, count, "")
}

func (n *Node) ReplaceData(offset, count int, data webidl.DOMString) {
	n.replaceDataErr(offset, count, data)
}

// https://dom.spec.whatwg.org/#concept-cd-replace
func (n *Node) replaceDataErr(offset, count int, data webidl.DOMString) error {
	cd := n.characterData()
	runes := []rune(string(cd.Data))
	length := len(runes)
	if offset < 0 || offset > length {
		return indexSizeError("offset %d out of range", offset)
	}
	if count < 0 || offset+count > length {
		count = length - offset
	}
	insert := []rune(string(data))
	out := make([]rune, 0, length-count+len(insert))
	out = append(out, runes[:offset]...)
	out = append(out, insert...)
	out = append(out, runes[offset+count:]...)
	cd.Data = webidl.DOMString(out)

	if doc := n.nodeDocument(); doc != nil && doc.Document != nil {
		for _, r := range doc.Document.liveRanges {
			if r.startContainer == n {
				if r.startOffset > offset && r.startOffset <= offset+count {
					r.startOffset = offset
				} else if r.startOffset > offset+count {
					r.startOffset += len(insert) - count
				}
			}
			if r.endContainer == n {
				if r.endOffset > offset && r.endOffset <= offset+count {
					r.endOffset = offset
				} else if r.endOffset > offset+count {
					r.endOffset += len(insert) - count
				}
			}
		}
		doc.Document.bumpGeneration()
	}
	return nil
}
