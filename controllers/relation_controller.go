package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/fitvault/tracker"
	"github.com/cppla/fitvault/utils"
)

// RelationController serves the favorite and friend id sets.
type RelationController struct {
	favorites map[string]*tracker.IDSet
	friends   *tracker.IDSet
}

func NewRelationController(t *tracker.Tracker) *RelationController {
	return &RelationController{
		favorites: map[string]*tracker.IDSet{
			"workouts": t.FavoriteWorkouts,
			"meals":    t.FavoriteMeals,
		},
		friends: t.Friends,
	}
}

func (r *RelationController) favoriteSet(ctx *gin.Context) (*tracker.IDSet, bool) {
	set, ok := r.favorites[ctx.Param("kind")]
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40420, "unknown favorites kind")
		return nil, false
	}
	return set, true
}

// ListFavorites returns the ids for workouts or meals.
func (r *RelationController) ListFavorites(ctx *gin.Context) {
	set, ok := r.favoriteSet(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, set.List(ctx.Request.Context()))
}

// ToggleFavorite flips membership of :id.
func (r *RelationController) ToggleFavorite(ctx *gin.Context) {
	set, ok := r.favoriteSet(ctx)
	if !ok {
		return
	}
	r.toggle(ctx, set)
}

// ListFriends returns the followed trainer/user ids.
func (r *RelationController) ListFriends(ctx *gin.Context) {
	utils.Success(ctx, r.friends.List(ctx.Request.Context()))
}

// ToggleFriend follows or unfollows :id.
func (r *RelationController) ToggleFriend(ctx *gin.Context) {
	r.toggle(ctx, r.friends)
}

func (r *RelationController) toggle(ctx *gin.Context, set *tracker.IDSet) {
	id, ok := intParam(ctx, "id")
	if !ok {
		return
	}
	member, err := set.Toggle(ctx.Request.Context(), id)
	if err != nil {
		respondWriteError(ctx, err, 50020)
		return
	}
	utils.Success(ctx, gin.H{
		"id":     id,
		"member": member,
		"ids":    set.List(ctx.Request.Context()),
	})
}
