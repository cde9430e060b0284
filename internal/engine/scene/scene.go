package scene

// ============================================================
// Scene
// ============================================================

// Scene — упорядоченный по вставке набор элементов.
// Элементы не ссылаются друг на друга, связь — только совпадение координат.
type Scene struct {
	elements []Element
	nextID   int64
}

func New() *Scene {
	return &Scene{nextID: 1}
}

// Add присваивает элементу новый id и добавляет его в конец.
func (s *Scene) Add(e Element) Element {
	e.setID(s.nextID)
	s.nextID++
	s.elements = append(s.elements, e)
	return e
}

// Insert добавляет элемент с уже заданным id (загрузка листа).
// Нулевой или занятый id заменяется новым.
func (s *Scene) Insert(e Element) Element {
	id := e.ElementID()
	if id <= 0 || s.Get(id) != nil {
		return s.Add(e)
	}
	s.elements = append(s.elements, e)
	if id >= s.nextID {
		s.nextID = id + 1
	}
	return e
}

func (s *Scene) Get(id int64) Element {
	for _, e := range s.elements {
		if e.ElementID() == id {
			return e
		}
	}
	return nil
}

// Remove удаляет элемент без каскадного удаления зависимой геометрии.
func (s *Scene) Remove(id int64) bool {
	for i, e := range s.elements {
		if e.ElementID() == id {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			return true
		}
	}
	return false
}

// Elements возвращает элементы в порядке вставки. Срез нельзя изменять.
func (s *Scene) Elements() []Element {
	return s.elements
}

func (s *Scene) Len() int {
	return len(s.elements)
}

// Replace целиком заменяет содержимое сцены.
func (s *Scene) Replace(elements []Element) {
	s.elements = nil
	for _, e := range elements {
		s.Insert(e)
	}
}

// Clone — глубокая копия сцены.
func (s *Scene) Clone() *Scene {
	out := &Scene{nextID: s.nextID}
	for _, e := range s.elements {
		out.elements = append(out.elements, e.clone())
	}
	return out
}
