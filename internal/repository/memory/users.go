package memory

import (
	"sort"
	"strings"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
)

type userRepo struct {
	root *Store
	tx   *state
}

func (r *userRepo) Create(u *model.User) error {
	st, done := access(r.root, r.tx)
	defer done()
	if u.ID == 0 {
		u.ID = st.nextID("user")
	}
	st.users[u.ID] = *u
	return nil
}

func (r *userRepo) FindByID(id uint) (*model.User, error) {
	st, done := access(r.root, r.tx)
	defer done()
	u, ok := st.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	st, done := access(r.root, r.tx)
	defer done()
	for _, u := range st.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) Update(u *model.User) error {
	st, done := access(r.root, r.tx)
	defer done()
	if _, ok := st.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	st.users[u.ID] = *u
	return nil
}

func (r *userRepo) List(f repository.UserFilter) ([]model.User, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.User
	for _, u := range st.users {
		if f.Role != "" && string(u.Role) != f.Role {
			continue
		}
		if f.Query != "" {
			q := strings.ToLower(f.Query)
			if !strings.Contains(strings.ToLower(u.Nama), q) &&
				!strings.Contains(strings.ToLower(u.Email), q) {
				continue
			}
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *userRepo) UpdateRatingStats(sellerID uint, avg *float64, total int) error {
	st, done := access(r.root, r.tx)
	defer done()
	u, ok := st.users[sellerID]
	if !ok {
		return repository.ErrNotFound
	}
	u.AvgRating = avg
	u.TotalRatings = total
	st.users[sellerID] = u
	return nil
}

func (r *userRepo) Counts() (model.UserCounts, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var c model.UserCounts
	for _, u := range st.users {
		c.Total++
		switch u.Role {
		case model.RoleBuyer:
			c.Pembeli++
		case model.RoleSeller:
			c.Penjual++
		case model.RoleCourier:
			c.Kurir++
		}
		if u.Verified {
			c.Verified++
		}
	}
	return c, nil
}
